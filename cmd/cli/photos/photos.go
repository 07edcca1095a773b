// Package photos holds the memora-cli commands that talk to a running
// Memora server through its upload and list API.
package photos

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/memora-app/memora/internal/memoraapi"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/quiz"
	"github.com/memora-app/memora/internal/random"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "photos",
	Title: "Photos",
}

var serverURL string

func init() {
	Seed.Flags().StringVar(&serverURL, "server", "http://localhost:4000", "Memora server URL")
	Quiz.Flags().StringVar(&serverURL, "server", "http://localhost:4000", "Memora server URL")
}

func newClient() *memoraapi.Client {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return memoraapi.NewClient(serverURL, logger)
}

// sampleBatch is a small tagged batch for trying out the feed and the quiz.
var sampleBatch = []models.PhotoRecord{
	{
		Source: models.FileSource{Name: "picnic.jpg", ContentType: "image/jpeg", Content: []byte("sample picnic photo")},
		Place:  "Central Park",
		Time:   "Summer 2023",
		Tags: []models.PointTag{
			{Type: models.TagTypePerson, Label: "Sam", X: 42, Y: 31},
			{Type: models.TagTypePerson, Label: "Maria", X: 68, Y: 40},
		},
	},
	{
		Source: models.FileSource{Name: "birthday.jpg", ContentType: "image/jpeg", Content: []byte("sample birthday photo")},
		Place:  "Home",
		Time:   "March 2024",
		Tags: []models.PointTag{
			{Type: models.TagTypePerson, Label: "Leo", X: 50, Y: 55},
		},
	},
	{
		Source: models.FileSource{Name: "garden.jpg", ContentType: "image/jpeg", Content: []byte("sample garden photo")},
		Place:  "The allotment",
		Time:   "Spring 2022",
	},
}

var Seed = &cobra.Command{
	Use:     "seed",
	GroupID: "photos",
	Short:   "Upload a batch of sample tagged photos",
	Long:    "Uploads a small batch of tagged sample photos through the upload API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		client := newClient()
		if err := client.Healthy(ctx); err != nil {
			return fmt.Errorf("server not reachable: %w", err)
		}
		for _, record := range sampleBatch {
			record.ID = fmt.Sprintf("%d_%s", time.Now().UnixMilli(), record.Source.Name)
			url, err := client.Upload(ctx, record)
			if err != nil {
				return fmt.Errorf("upload %s: %w", record.Source.Name, err)
			}
			cmd.Printf("uploaded %s -> %s\n", record.Source.Name, url)
		}
		return nil
	},
}

var Quiz = &cobra.Command{
	Use:     "quiz",
	GroupID: "photos",
	Short:   "Generate a recall quiz from the stored photos",
	Long:    "Fetches the stored photos and prints a recall quiz built from the most recent one.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		client := newClient()
		photos, err := client.ListImages(ctx)
		if err != nil {
			return fmt.Errorf("list images: %w", err)
		}
		if len(photos) == 0 {
			return fmt.Errorf("no photos stored yet, run `memora-cli seed` first")
		}

		records := make([]models.PhotoRecord, 0, len(photos))
		for _, photo := range photos {
			records = append(records, photo.Record())
		}
		question, err := quiz.Generate(random.NewRand(), records[len(records)-1], records)
		if err != nil {
			return fmt.Errorf("generate quiz: %w", err)
		}

		cmd.Printf("%s\n", question.Prompt)
		for i, option := range question.Options {
			cmd.Printf("  %d. %s\n", i+1, option)
		}
		return nil
	},
}
