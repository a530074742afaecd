package main

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	r, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(r.close)
	return r
}

func TestSQLiteShowRoundTrip(t *testing.T) {
	r := newTestRepo(t)

	id, err := r.InsertShow(Show{
		Title:     "Asubuhi Leo",
		StartTime: "06:00:00",
		EndTime:   "10:00:00",
		Days:      []string{"mon", "tue", "wed"},
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := r.GetShowByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Asubuhi Leo", got.Title)
	assert.Equal(t, []string{"mon", "tue", "wed"}, got.Days)
	assert.Equal(t, []string{}, got.Presenters)

	got.Title = "Asubuhi Leo Live"
	got.Days = []string{"mon"}
	require.NoError(t, r.UpdateShow(*got))

	all, err := r.GetAllShows()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Asubuhi Leo Live", all[0].Title)
	assert.Equal(t, []string{"mon"}, all[0].Days)

	require.NoError(t, r.DeleteShow(id))
	all, err = r.GetAllShows()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteUpdateMissingShow(t *testing.T) {
	r := newTestRepo(t)
	err := r.UpdateShow(Show{ID: 42, Title: "Ghost", StartTime: "06:00:00", EndTime: "07:00:00", Days: []string{"mon"}})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSQLitePresenterJoin(t *testing.T) {
	r := newTestRepo(t)

	showID, err := r.InsertShow(Show{
		Title: "Weekend Pause", StartTime: "17:00:00", EndTime: "19:00:00", Days: []string{"sat"},
	})
	require.NoError(t, err)

	_, err = r.InsertPresenter(Presenter{Name: "Ben", ShowID: showID})
	require.NoError(t, err)
	_, err = r.InsertPresenter(Presenter{Name: "Emma", ShowID: showID})
	require.NoError(t, err)
	// unattached presenter must not land on any show
	_, err = r.InsertPresenter(Presenter{Name: "Floater"})
	require.NoError(t, err)

	all, err := r.GetAllShows()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []string{"Ben", "Emma"}, all[0].Presenters)
}

func TestSQLiteCommentVisibilityAndReports(t *testing.T) {
	r := newTestRepo(t)

	visibleID, err := r.InsertComment(Comment{Username: "Asha", Message: "karibu sana"})
	require.NoError(t, err)
	_, err = r.InsertComment(Comment{Username: "Troll", Message: "badword1", Hidden: true})
	require.NoError(t, err)

	visible, err := r.GetVisibleComments()
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Asha", visible[0].Username)
	assert.False(t, visible[0].CreatedAt.IsZero())

	_, err = r.InsertReport(CommentReport{CommentID: visibleID, ReportedBy: "dev-1", Reason: "spam"})
	require.NoError(t, err)

	reports, err := r.GetReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, visibleID, reports[0].CommentID)

	require.NoError(t, r.DeleteComment(visibleID))
	assert.ErrorIs(t, r.DeleteComment(visibleID), sql.ErrNoRows)
}

func TestSQLiteAdminDevices(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.db.Exec(`insert into devices (device_id, role, active) values
	  ('admin-1', 'admin', 1),
	  ('listener-1', 'user', 1),
	  ('retired-admin', 'admin', 0);`)
	require.NoError(t, err)

	ok, err := r.IsAdminDevice("admin-1")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, id := range []string{"listener-1", "retired-admin", "unknown"} {
		ok, err = r.IsAdminDevice(id)
		require.NoError(t, err)
		assert.False(t, ok, id)
	}
}
