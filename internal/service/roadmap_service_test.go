package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
)

type fakeRoadmapRepo struct {
	roadmaps map[string]model.Roadmap
}

func newFakeRoadmapRepo() *fakeRoadmapRepo {
	return &fakeRoadmapRepo{roadmaps: make(map[string]model.Roadmap)}
}

func (r *fakeRoadmapRepo) key(userID uint, skill string) string {
	return fmt.Sprintf("%d/%s", userID, strings.ToLower(skill))
}

func (r *fakeRoadmapRepo) UpsertRoadmap(roadmap *model.Roadmap) error {
	r.roadmaps[r.key(roadmap.UserID, roadmap.SkillName)] = *roadmap
	return nil
}

func (r *fakeRoadmapRepo) GetRoadmap(userID uint, skillName string) (*model.Roadmap, error) {
	roadmap, ok := r.roadmaps[r.key(userID, skillName)]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := roadmap
	return &copied, nil
}

const roadmapJSON = `{"steps":[
	{"title":"Basics","description":"Syntax and tooling","duration":"2 weeks","resources":["tour"]},
	{"title":"Concurrency","description":"Goroutines and channels","duration":"3 weeks"}
]}`

func newRoadmapFixture(t *testing.T, gen *fakeGenerator) (RoadmapService, *model.User) {
	t.Helper()
	userRepo := newFakeUserRepo()
	user := &model.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, userRepo.CreateUser(user))
	return NewRoadmapService(newFakeRoadmapRepo(), userRepo, gen, testAIConfig()), user
}

func TestGenerateRoadmap(t *testing.T) {
	svc, user := newRoadmapFixture(t, &fakeGenerator{responses: []string{roadmapJSON}})

	roadmap, err := svc.GenerateRoadmap(context.Background(), user.ID, "Go")
	require.NoError(t, err)
	require.Len(t, roadmap.Steps, 2)
	assert.Equal(t, "Basics", roadmap.Steps[0].Title)
	assert.False(t, roadmap.GeneratedAt.IsZero())

	// Lookup is case-insensitive.
	stored, err := svc.GetRoadmap(user.ID, "go")
	require.NoError(t, err)
	assert.Len(t, stored.Steps, 2)
}

func TestGenerateRoadmapRegenerationOverwrites(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		roadmapJSON,
		`{"steps":[{"title":"Only step","description":"x","duration":"1 week"}]}`,
	}}
	svc, user := newRoadmapFixture(t, gen)

	_, err := svc.GenerateRoadmap(context.Background(), user.ID, "Go")
	require.NoError(t, err)
	_, err = svc.GenerateRoadmap(context.Background(), user.ID, "Go")
	require.NoError(t, err)

	stored, err := svc.GetRoadmap(user.ID, "Go")
	require.NoError(t, err)
	require.Len(t, stored.Steps, 1)
	assert.Equal(t, "Only step", stored.Steps[0].Title)
}

func TestGenerateRoadmapFailure(t *testing.T) {
	gen := &fakeGenerator{errs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	svc, user := newRoadmapFixture(t, gen)

	_, err := svc.GenerateRoadmap(context.Background(), user.ID, "Go")
	require.Error(t, err)
	assert.Equal(t, 3, gen.calls)

	_, err = svc.GetRoadmap(user.ID, "Go")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestExportPDF(t *testing.T) {
	svc, user := newRoadmapFixture(t, &fakeGenerator{responses: []string{roadmapJSON}})

	_, err := svc.GenerateRoadmap(context.Background(), user.ID, "Go")
	require.NoError(t, err)

	data, err := svc.ExportPDF(user.ID, "Go")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	_, err = svc.ExportPDF(user.ID, "Rust")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
