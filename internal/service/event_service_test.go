package service

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/events"
)

type eventTestEnv struct {
	svc      *EventService
	clubsSvc *ClubService
	clubs    *fakeClubRepo
	events   *fakeEventRepo
	comments *fakeCommentRepo
	likes    *fakeLikeRepo
	disp     *captureDispatcher
	club     *domain.Club
}

func newEventTestEnv(t *testing.T) *eventTestEnv {
	t.Helper()
	env := &eventTestEnv{
		clubs:    newFakeClubRepo(),
		events:   newFakeEventRepo(),
		comments: newFakeCommentRepo(),
		likes:    newFakeLikeRepo(),
		disp:     newCaptureDispatcher(),
	}
	env.svc = NewEventService(EventDependencies{
		EventRepo:   env.events,
		ClubRepo:    env.clubs,
		CommentRepo: env.comments,
		LikeRepo:    env.likes,
		Dispatcher:  env.disp,
	})
	env.clubsSvc = NewClubService(ClubDependencies{ClubRepo: env.clubs, LikeRepo: env.likes})

	club, err := env.clubsSvc.CreateClub(context.Background(), "admin-1", ClubCreateInput{
		Name:            "Robotics Club",
		Category:        domain.ClubCategoryTechnical,
		RecruitmentOpen: true,
	})
	require.NoError(t, err)
	env.club = club
	return env
}

func validEventInput(start time.Time) EventCreateInput {
	return EventCreateInput{
		Title:    "Robowars",
		Venue:    "Main Auditorium",
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
	}
}

func TestCreateEventRequiresClubAdmin(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Now().Add(24 * time.Hour)

	_, err := env.svc.CreateEvent(context.Background(), memberAccount("stranger"), env.club.Slug, validEventInput(start))
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	event, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(start))
	require.NoError(t, err)
	assert.Equal(t, env.club.ID, event.ClubID)
	require.Len(t, env.disp.byType(events.EventEventPublished), 1)
}

func TestCreateEventRejectsInvertedWindow(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	input := validEventInput(start)
	input.EndsAt = start.Add(-time.Hour)

	_, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, input)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestListEventsUpcomingOnly(t *testing.T) {
	env := newEventTestEnv(t)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	_, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(now.Add(-48*time.Hour)))
	require.NoError(t, err)
	upcoming, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, EventCreateInput{
		Title:    "Tech Talk",
		StartsAt: now.Add(48 * time.Hour),
		EndsAt:   now.Add(50 * time.Hour),
	})
	require.NoError(t, err)

	listed, err := env.svc.ListEvents(context.Background(), EventListInput{UpcomingOnly: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, upcoming.ID, listed[0].ID)

	all, err := env.svc.ListEvents(context.Background(), EventListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListEventsUpcomingKeepsStricterFrom(t *testing.T) {
	env := newEventTestEnv(t)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	_, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(now.Add(-48*time.Hour)))
	require.NoError(t, err)
	soon, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, EventCreateInput{
		Title:    "Tech Talk",
		StartsAt: now.Add(48 * time.Hour),
		EndsAt:   now.Add(50 * time.Hour),
	})
	require.NoError(t, err)
	later, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, EventCreateInput{
		Title:    "Hack Night",
		StartsAt: now.Add(120 * time.Hour),
		EndsAt:   now.Add(122 * time.Hour),
	})
	require.NoError(t, err)

	// A lower bound beyond "now" narrows the upcoming listing further.
	from := now.Add(72 * time.Hour)
	listed, err := env.svc.ListEvents(context.Background(), EventListInput{UpcomingOnly: true, From: &from})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, later.ID, listed[0].ID)

	// A lower bound in the past still excludes already-started events.
	past := now.Add(-72 * time.Hour)
	listed, err = env.svc.ListEvents(context.Background(), EventListInput{UpcomingOnly: true, From: &past})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, soon.ID, listed[0].ID)
}

func TestUpdateEventPermissionsAndWindow(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	event, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(start))
	require.NoError(t, err)

	title := "Robowars Finals"
	_, err = env.svc.UpdateEvent(context.Background(), memberAccount("stranger"), event.ID, EventUpdateInput{Title: &title})
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	badEnd := start.Add(-time.Hour)
	_, err = env.svc.UpdateEvent(context.Background(), memberAccount("admin-1"), event.ID, EventUpdateInput{EndsAt: &badEnd})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	updated, err := env.svc.UpdateEvent(context.Background(), memberAccount("admin-1"), event.ID, EventUpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestDeleteEventPublishesCancellation(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	event, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(start))
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteEvent(context.Background(), memberAccount("admin-1"), event.ID))
	require.Len(t, env.disp.byType(events.EventEventCancelled), 1)

	_, err = env.svc.GetEvent(context.Background(), event.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestEventComments(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	event, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(start))
	require.NoError(t, err)

	author := memberAccount("acc-7")
	author.Name = "Bob"
	comment, err := env.svc.AddComment(context.Background(), author, event.ID, "  looking forward to this  ")
	require.NoError(t, err)
	assert.Equal(t, "looking forward to this", comment.Body)
	assert.Equal(t, "Bob", comment.AuthorName)
	require.Len(t, env.disp.byType(events.EventCommentAdded), 1)

	listed, err := env.svc.ListComments(context.Background(), event.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// Only the author or a club admin may delete.
	err = env.svc.DeleteComment(context.Background(), memberAccount("stranger"), event.ID, comment.ID)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	require.NoError(t, env.svc.DeleteComment(context.Background(), author, event.ID, comment.ID))
}

func TestDeleteCommentByClubAdmin(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	event, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(start))
	require.NoError(t, err)

	comment, err := env.svc.AddComment(context.Background(), memberAccount("acc-7"), event.ID, "spam")
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteComment(context.Background(), memberAccount("admin-1"), event.ID, comment.ID))
}

func TestEventToggleLike(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	event, err := env.svc.CreateEvent(context.Background(), memberAccount("admin-1"), env.club.Slug, validEventInput(start))
	require.NoError(t, err)

	liked, total, err := env.svc.ToggleLike(context.Background(), "acc-1", event.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), total)
}

func TestStringPreviewKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", stringPreview("short", 120))
	assert.Equal(t, "abcde", stringPreview("abcdef", 5))

	// Truncation must land on a rune boundary, never mid-character.
	preview := stringPreview("héllo wörld, cafés übér", 10)
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, "héllo wörl", preview)

	cjk := stringPreview("机器人俱乐部欢迎新成员", 4)
	assert.True(t, utf8.ValidString(cjk))
	assert.Equal(t, "机器人俱", cjk)
}
