package videos

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/okazarov/sitecms/internal/domain/content"
	"github.com/okazarov/sitecms/internal/services/media"
)

type fakeCorporateStore struct {
	videos map[uuid.UUID]content.CorporateVideo
}

func (f *fakeCorporateStore) Insert(_ context.Context, v content.CorporateVideo) (content.CorporateVideo, error) {
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeCorporateStore) List(_ context.Context) ([]content.CorporateVideo, error) {
	out := make([]content.CorporateVideo, 0, len(f.videos))
	for _, v := range f.videos {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeCorporateStore) Get(_ context.Context, id uuid.UUID) (content.CorporateVideo, error) {
	v, ok := f.videos[id]
	if !ok {
		return content.CorporateVideo{}, content.ErrNotFound
	}
	return v, nil
}

func (f *fakeCorporateStore) Update(_ context.Context, v content.CorporateVideo) (content.CorporateVideo, error) {
	if _, ok := f.videos[v.ID]; !ok {
		return content.CorporateVideo{}, content.ErrNotFound
	}
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeCorporateStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.videos[id]; !ok {
		return content.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

type fakeReelStore struct {
	reels     map[uuid.UUID]content.Reel
	insertErr error
}

func (f *fakeReelStore) Insert(_ context.Context, r content.Reel) (content.Reel, error) {
	if f.insertErr != nil {
		return content.Reel{}, f.insertErr
	}
	f.reels[r.ID] = r
	return r, nil
}

func (f *fakeReelStore) List(_ context.Context) ([]content.Reel, error) {
	out := make([]content.Reel, 0, len(f.reels))
	for _, r := range f.reels {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReelStore) Get(_ context.Context, id uuid.UUID) (content.Reel, error) {
	r, ok := f.reels[id]
	if !ok {
		return content.Reel{}, content.ErrNotFound
	}
	return r, nil
}

func (f *fakeReelStore) Update(_ context.Context, r content.Reel) (content.Reel, error) {
	if _, ok := f.reels[r.ID]; !ok {
		return content.Reel{}, content.ErrNotFound
	}
	f.reels[r.ID] = r
	return r, nil
}

func (f *fakeReelStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.reels[id]; !ok {
		return content.ErrNotFound
	}
	delete(f.reels, id)
	return nil
}

type fakeTeamStore struct {
	videos map[uuid.UUID]content.TeamVideo
}

func (f *fakeTeamStore) Insert(_ context.Context, v content.TeamVideo) (content.TeamVideo, error) {
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeTeamStore) List(_ context.Context) ([]content.TeamVideo, error) {
	out := make([]content.TeamVideo, 0, len(f.videos))
	for _, v := range f.videos {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeTeamStore) Get(_ context.Context, id uuid.UUID) (content.TeamVideo, error) {
	v, ok := f.videos[id]
	if !ok {
		return content.TeamVideo{}, content.ErrNotFound
	}
	return v, nil
}

func (f *fakeTeamStore) Update(_ context.Context, v content.TeamVideo) (content.TeamVideo, error) {
	if _, ok := f.videos[v.ID]; !ok {
		return content.TeamVideo{}, content.ErrNotFound
	}
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeTeamStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.videos[id]; !ok {
		return content.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

type fakeMedia struct {
	uploads int
	deleted []string
}

func (f *fakeMedia) UploadDataURI(_ context.Context, kind, _ string) (media.Asset, error) {
	f.uploads++
	key := fmt.Sprintf("%s/object-%d.png", kind, f.uploads)
	return media.Asset{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (f *fakeMedia) Link(_ context.Context, _ string, _ uuid.UUID) error { return nil }

func (f *fakeMedia) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newVideoService() (*Service, *fakeCorporateStore, *fakeReelStore, *fakeTeamStore, *fakeMedia) {
	corporate := &fakeCorporateStore{videos: make(map[uuid.UUID]content.CorporateVideo)}
	reels := &fakeReelStore{reels: make(map[uuid.UUID]content.Reel)}
	team := &fakeTeamStore{videos: make(map[uuid.UUID]content.TeamVideo)}
	mediaSvc := &fakeMedia{}
	return NewService(corporate, reels, team, mediaSvc, nil), corporate, reels, team, mediaSvc
}

func TestCreateCorporateDefaultsEnums(t *testing.T) {
	svc, _, _, _, _ := newVideoService()

	video, err := svc.CreateCorporate(context.Background(), CorporateInput{
		Title:    "Company intro",
		VideoURL: "https://example.com/intro.mp4",
	})
	if err != nil {
		t.Fatalf("create corporate: %v", err)
	}
	if video.Privacy != content.PrivacyPublic {
		t.Fatalf("expected default privacy public, got %q", video.Privacy)
	}
	if video.Status != content.StatusPublished {
		t.Fatalf("expected default status published, got %q", video.Status)
	}
}

func TestCreateCorporateRejectsInvalidEnums(t *testing.T) {
	svc, _, _, _, _ := newVideoService()

	input := CorporateInput{Title: "x", VideoURL: "https://example.com/x.mp4", Privacy: "secret"}
	if _, err := svc.CreateCorporate(context.Background(), input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for privacy, got %v", err)
	}

	input = CorporateInput{Title: "x", VideoURL: "https://example.com/x.mp4", Status: "live"}
	if _, err := svc.CreateCorporate(context.Background(), input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for status, got %v", err)
	}
}

func TestCreateCorporateRequiresTitleAndURL(t *testing.T) {
	svc, _, _, _, _ := newVideoService()

	if _, err := svc.CreateCorporate(context.Background(), CorporateInput{VideoURL: "https://x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without title, got %v", err)
	}
	if _, err := svc.CreateCorporate(context.Background(), CorporateInput{Title: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without videoUrl, got %v", err)
	}
}

func TestUpdateCorporateKeepsUnsetFields(t *testing.T) {
	svc, _, _, _, _ := newVideoService()
	ctx := context.Background()

	created, err := svc.CreateCorporate(ctx, CorporateInput{
		Label:    "hero",
		Title:    "Company intro",
		VideoURL: "https://example.com/intro.mp4",
		Privacy:  "unlisted",
	})
	if err != nil {
		t.Fatalf("create corporate: %v", err)
	}

	updated, err := svc.UpdateCorporate(ctx, created.ID, CorporateInput{Title: "New intro"})
	if err != nil {
		t.Fatalf("update corporate: %v", err)
	}
	if updated.Title != "New intro" {
		t.Fatalf("title not applied: %q", updated.Title)
	}
	if updated.Label != "hero" || updated.VideoURL != "https://example.com/intro.mp4" {
		t.Fatalf("unset fields were dropped: %+v", updated)
	}
	if updated.Privacy != content.PrivacyUnlisted {
		t.Fatalf("privacy should survive a partial update, got %q", updated.Privacy)
	}
}

func TestCreateReelUploadsInlineClip(t *testing.T) {
	svc, _, _, _, mediaSvc := newVideoService()

	dataURI := "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("clip"))
	reel, err := svc.CreateReel(context.Background(), ReelInput{VideoURL: dataURI})
	if err != nil {
		t.Fatalf("create reel: %v", err)
	}
	if reel.AssetKey == "" || reel.VideoURL == dataURI {
		t.Fatalf("expected stored asset, got %+v", reel)
	}
	if mediaSvc.uploads != 1 {
		t.Fatalf("expected one upload, got %d", mediaSvc.uploads)
	}
}

func TestCreateReelCompensatesOnInsertFailure(t *testing.T) {
	svc, _, reels, _, mediaSvc := newVideoService()
	reels.insertErr = errors.New("db down")

	dataURI := "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("clip"))
	if _, err := svc.CreateReel(context.Background(), ReelInput{VideoURL: dataURI}); err == nil {
		t.Fatal("expected insert failure")
	}
	if len(mediaSvc.deleted) != 1 {
		t.Fatalf("expected uploaded clip removed, got %v", mediaSvc.deleted)
	}
}

func TestDeleteReelRemovesClipAndDocument(t *testing.T) {
	svc, _, reels, _, mediaSvc := newVideoService()
	ctx := context.Background()

	dataURI := "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("clip"))
	reel, err := svc.CreateReel(ctx, ReelInput{VideoURL: dataURI})
	if err != nil {
		t.Fatalf("create reel: %v", err)
	}

	if err := svc.DeleteReel(ctx, reel.ID); err != nil {
		t.Fatalf("delete reel: %v", err)
	}
	if len(mediaSvc.deleted) != 1 || mediaSvc.deleted[0] != reel.AssetKey {
		t.Fatalf("expected clip removed, got %v", mediaSvc.deleted)
	}
	if len(reels.reels) != 0 {
		t.Fatalf("expected document removed, %d left", len(reels.reels))
	}

	if err := svc.DeleteReel(ctx, reel.ID); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestTeamVideoLifecycle(t *testing.T) {
	svc, _, _, team, _ := newVideoService()
	ctx := context.Background()

	created, err := svc.CreateTeam(ctx, TeamInput{Title: "Meet the team", VideoURL: "https://example.com/team.mp4"})
	if err != nil {
		t.Fatalf("create team video: %v", err)
	}

	updated, err := svc.UpdateTeam(ctx, created.ID, TeamInput{PosterURL: "https://example.com/poster.jpg"})
	if err != nil {
		t.Fatalf("update team video: %v", err)
	}
	if updated.Title != "Meet the team" || updated.PosterURL != "https://example.com/poster.jpg" {
		t.Fatalf("unexpected merge result: %+v", updated)
	}

	if err := svc.DeleteTeam(ctx, created.ID); err != nil {
		t.Fatalf("delete team video: %v", err)
	}
	if len(team.videos) != 0 {
		t.Fatalf("expected document removed, %d left", len(team.videos))
	}
}

func TestCreateTeamRequiresFields(t *testing.T) {
	svc, _, _, _, _ := newVideoService()

	if _, err := svc.CreateTeam(context.Background(), TeamInput{VideoURL: "https://x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without title, got %v", err)
	}
	if _, err := svc.CreateTeam(context.Background(), TeamInput{Title: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without videoUrl, got %v", err)
	}
}
