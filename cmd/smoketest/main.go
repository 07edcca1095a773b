// Smoketest exercises a deployed Memora server end to end: liveness,
// one photo upload, and the list endpoint reflecting it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/logging"
	"github.com/memora-app/memora/internal/memoraapi"
	"github.com/memora-app/memora/internal/models"
)

func testUploadAndList(ctx context.Context, client *memoraapi.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.Healthy(ctx); err != nil {
		return errors.Wrap(err, "check liveness")
	}

	name := fmt.Sprintf("smoketest-%d.jpg", time.Now().UnixMilli())
	url, err := client.Upload(ctx, models.PhotoRecord{
		ID:     name,
		Source: models.FileSource{Name: name, ContentType: "image/jpeg", Content: []byte("smoketest photo")},
		Place:  "Smoketest",
		Time:   "Now",
		Tags: []models.PointTag{
			{Type: models.TagTypePerson, Label: "Smokey", X: 50, Y: 50},
		},
	})
	if err != nil {
		return errors.Wrap(err, "upload photo")
	}

	photos, err := client.ListImages(ctx)
	if err != nil {
		return errors.Wrap(err, "list images")
	}
	for _, photo := range photos {
		if photo.ImageURL == url {
			return nil
		}
	}
	return errors.New("uploaded photo missing from list", slog.String("url", url))
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only the server URL to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <server-url>")
		os.Exit(1)
	}

	url := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("server", url))

	client := memoraapi.NewClient(url, logger)
	if err := testUploadAndList(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
