package service

import (
	"context"
	"image"
	"os"
	"testing"

	"snapdare/internal/config"
	"snapdare/internal/models"
	"snapdare/internal/testutil"
)

func newTestMediaService(t *testing.T) (*MediaService, *testutil.MediaRepoStub) {
	t.Helper()
	repo := testutil.NewMediaRepoStub()
	svc := NewMediaService(repo, &config.Config{
		MediaUploadDir:       t.TempDir(),
		MediaMaxUploadSizeMB: 1,
	})
	return svc, repo
}

func TestUploadMedia(t *testing.T) {
	t.Run("Happy Path", func(t *testing.T) {
		svc, repo := newTestMediaService(t)

		media, err := svc.Upload(context.Background(), UploadMediaInput{
			OwnerID:     7,
			Filename:    "shot.png",
			ContentType: "image/png",
			Content:     testutil.TinyPNG(t, 10, 8),
		})
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		if media.Format != "webp" {
			t.Fatalf("expected webp, got %s", media.Format)
		}
		if media.Kind != models.MediaTypeImage {
			t.Fatalf("expected image kind, got %s", media.Kind)
		}
		if media.Width != 10 || media.Height != 8 {
			t.Fatalf("expected 10x8, got %dx%d", media.Width, media.Height)
		}
		if len(media.Hash) != 64 {
			t.Fatalf("expected sha256 hash, got %q", media.Hash)
		}
		if repo.Len() != 1 {
			t.Fatalf("expected 1 record, got %d", repo.Len())
		}

		_, fullPath, err := svc.ResolveForServing(context.Background(), media.Hash)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if _, err := os.Stat(fullPath); err != nil {
			t.Fatalf("stored file missing: %v", err)
		}
	})

	t.Run("Identical Upload Is Deduplicated", func(t *testing.T) {
		svc, repo := newTestMediaService(t)
		content := testutil.TinyPNG(t, 12, 12)

		first, err := svc.Upload(context.Background(), UploadMediaInput{
			OwnerID: 7, Filename: "a.png", ContentType: "image/png", Content: content,
		})
		if err != nil {
			t.Fatalf("first upload: %v", err)
		}
		second, err := svc.Upload(context.Background(), UploadMediaInput{
			OwnerID: 7, Filename: "b.png", ContentType: "image/png", Content: content,
		})
		if err != nil {
			t.Fatalf("second upload: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("expected same record, got %d and %d", first.ID, second.ID)
		}
		if repo.Len() != 1 {
			t.Fatalf("expected 1 record, got %d", repo.Len())
		}
	})

	t.Run("Empty Upload", func(t *testing.T) {
		svc, _ := newTestMediaService(t)
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			OwnerID: 7, Filename: "empty.png", ContentType: "image/png",
		})
		assertErrCode(t, err, models.CodeValidation)
	})

	t.Run("Missing Owner", func(t *testing.T) {
		svc, _ := newTestMediaService(t)
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			Filename: "shot.png", ContentType: "image/png", Content: testutil.TinyPNG(t, 4, 4),
		})
		assertErrCode(t, err, models.CodeValidation)
	})

	t.Run("Oversized Upload", func(t *testing.T) {
		svc, _ := newTestMediaService(t)
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			OwnerID:     7,
			Filename:    "huge.png",
			ContentType: "image/png",
			Content:     make([]byte, 2*1024*1024),
		})
		assertErrCode(t, err, models.CodeValidation)
	})

	t.Run("Not An Image", func(t *testing.T) {
		svc, _ := newTestMediaService(t)
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			OwnerID:     7,
			Filename:    "notes.txt",
			ContentType: "image/png",
			Content:     []byte("just some text pretending to be an image"),
		})
		assertErrCode(t, err, models.CodeValidation)
	})
}

func TestResolveForServing(t *testing.T) {
	t.Run("Rejects Malformed Hashes", func(t *testing.T) {
		svc, _ := newTestMediaService(t)
		for _, hash := range []string{
			"",
			"short",
			"../../../etc/passwd",
			"ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789", // uppercase
		} {
			_, _, err := svc.ResolveForServing(context.Background(), hash)
			assertErrCode(t, err, models.CodeValidation)
		}
	})

	t.Run("Unknown Hash", func(t *testing.T) {
		svc, _ := newTestMediaService(t)
		_, _, err := svc.ResolveForServing(context.Background(),
			"abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789")
		assertErrCode(t, err, models.CodeNotFound)
	})
}

func TestResizeToFit(t *testing.T) {
	large := image.NewRGBA(image.Rect(0, 0, 4096, 1024))
	resized := resizeToFit(large, MediaMaxEdge, MediaMaxEdge)
	bounds := resized.Bounds()
	if bounds.Dx() != 2048 || bounds.Dy() != 512 {
		t.Fatalf("expected 2048x512, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if got := resizeToFit(small, MediaMaxEdge, MediaMaxEdge); got != small {
		t.Fatalf("small images must not be resized")
	}
}
