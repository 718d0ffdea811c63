package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// webpBytes builds a lossless WebP header for a w x h image. DecodeConfig
// reads nothing past it.
func webpBytes(w, h int) []byte {
	bits := uint32(w-1) | uint32(h-1)<<14
	vp8l := []byte{0x2f, byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24), 0x00}
	buf := []byte("RIFF")
	size := 4 + 8 + len(vp8l)
	buf = append(buf, byte(size), byte(size>>8), byte(size>>16), byte(size>>24))
	buf = append(buf, "WEBPVP8L"...)
	buf = append(buf, 5, 0, 0, 0)
	return append(buf, vp8l...)
}

func newProfileFixture() (*memProfileRepo, *memBlobStore, *profileService) {
	repo := newMemProfileRepo()
	blobs := newMemBlobStore()
	svc := NewProfileService(repo, blobs, testLogger()).(*profileService)
	svc.now = func() time.Time { return time.UnixMilli(1714566600000) }
	return repo, blobs, svc
}

func TestProfile_UploadValidationOrder(t *testing.T) {
	big := make([]byte, 5*1024*1024+1)
	tests := []struct {
		name        string
		data        func(t *testing.T) []byte
		contentType string
		want        string
	}{
		{name: "not an image type", data: func(t *testing.T) []byte { return pngBytes(t, 60, 60) }, contentType: "application/pdf", want: msgNotImage},
		{name: "type checked before size", data: func(*testing.T) []byte { return big }, contentType: "text/plain", want: msgNotImage},
		{name: "too large", data: func(*testing.T) []byte { return big }, contentType: "image/png", want: msgTooLarge},
		{name: "undecodable", data: func(*testing.T) []byte { return []byte("definitely not a png") }, contentType: "image/png", want: msgInvalidImage},
		{name: "too small", data: func(t *testing.T) []byte { return pngBytes(t, 49, 80) }, contentType: "image/png", want: msgTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, blobs, svc := newProfileFixture()
			_, err := svc.UploadProfilePicture(context.Background(), "u1", tt.data(t), tt.contentType)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.want, vErr.Message)
			assert.Empty(t, blobs.objects, "no upload after a validation failure")
		})
	}
}

func TestValidateImage_Formats(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        string
	}{
		{name: "webp", data: webpBytes(64, 64), contentType: "image/webp"},
		{name: "small webp", data: webpBytes(40, 64), contentType: "image/webp", want: msgTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateImage(tt.data, tt.contentType)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.want, vErr.Message)
		})
	}
}

func TestProfile_UploadReplacesOldPhoto(t *testing.T) {
	repo, blobs, svc := newProfileFixture()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &models.UserProfile{UID: "u1", PhotoURL: "https://blobs.example.com/profile-pictures/u1/1.jpg"}))

	url, err := svc.UploadProfilePicture(ctx, "u1", pngBytes(t, 50, 50), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.example.com/profile-pictures/u1/1714566600000.jpg", url)
	assert.Contains(t, blobs.objects, "profile-pictures/u1/1714566600000.jpg")
	assert.Equal(t, []string{"https://blobs.example.com/profile-pictures/u1/1.jpg"}, blobs.deleted)

	profile, err := repo.GetByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, url, profile.PhotoURL)
}

func TestProfile_UploadKeepsProviderPhoto(t *testing.T) {
	repo, blobs, svc := newProfileFixture()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &models.UserProfile{UID: "u1", PhotoURL: "https://lh3.googleusercontent.com/a/p.jpg"}))

	_, err := svc.UploadProfilePicture(ctx, "u1", pngBytes(t, 64, 64), "image/png")
	require.NoError(t, err)
	assert.Empty(t, blobs.deleted)
}

func TestProfile_UploadStorageErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantMsg   string
		wantError error
	}{
		{name: "network", err: &net.OpError{Op: "dial", Err: errors.New("connection reset")}, wantMsg: msgStorageNetwork},
		{name: "unavailable", err: &domain.BackendUnavailableError{Service: "supabase", Err: errors.New("bucket not found")}, wantError: domain.ErrBackendUnavailable},
		{name: "permission", err: &domain.ForbiddenError{Message: "new row violates row-level security policy"}, wantMsg: msgStorageDenied},
		{name: "other", err: errors.New("payload too large"), wantMsg: "Upload failed: payload too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, blobs, svc := newProfileFixture()
			blobs.uploadErr = tt.err

			_, err := svc.UploadProfilePicture(context.Background(), "u1", pngBytes(t, 60, 60), "image/png")
			require.Error(t, err)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestProfile_CreateMergesSessionDefaults(t *testing.T) {
	repo, _, svc := newProfileFixture()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &models.UserProfile{UID: "u1", DisplayName: "Chosen Name", Bio: "espresso nerd"}))

	profile, err := svc.CreateProfile(ctx, &models.Session{UID: "u1", DisplayName: "Google Name", Email: "a@b.co", AvatarURL: "https://x/p.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "Chosen Name", profile.DisplayName)
	assert.Equal(t, "a@b.co", profile.Email)
	assert.Equal(t, "https://x/p.jpg", profile.PhotoURL)
	assert.Equal(t, "espresso nerd", profile.Bio)
	assert.False(t, profile.CreatedAt.IsZero())
}

func TestProfile_UpdateTriState(t *testing.T) {
	repo, _, svc := newProfileFixture()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &models.UserProfile{UID: "u1", DisplayName: "Ana", Bio: "old bio", Location: "SF"}))

	profile, err := svc.UpdateProfile(ctx, "u1", &models.UpdateProfileRequest{
		Bio:      models.OptionalText{Present: true, Value: nil},
		Location: models.OptionalText{Present: false},
	})
	require.NoError(t, err)
	assert.Equal(t, "", profile.Bio, "null clears")
	assert.Equal(t, "SF", profile.Location, "absent keeps")
	assert.Equal(t, "Ana", profile.DisplayName)

	_, err = svc.UpdateProfile(ctx, "u1", &models.UpdateProfileRequest{Bio: models.OptionalText{Present: true, Value: strPtr(strings.Repeat("b", 281))}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProfile(ctx, "u1", &models.UpdateProfileRequest{DisplayName: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProfile(ctx, "nobody", &models.UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
