package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func trackRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "artist", "cover_url", "duration", "source", "source_url",
		"playlist_id", "added_by_id", "added_by", "vote_score", "added_at",
	})
}

func TestGetTrackByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLTrackRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM tracks WHERE id = ?").
		WithArgs(int64(99)).
		WillReturnRows(trackRows())

	track, err := repo.GetTrackByID(99)
	if err != nil {
		t.Fatalf("GetTrackByID error: %v", err)
	}
	if track != nil {
		t.Fatalf("expected nil track, got %+v", track)
	}
}

func TestListByPlaylistOrdering(t *testing.T) {
	tests := []struct {
		name      string
		sort      TrackSort
		wantOrder string
	}{
		{name: "by votes with stable tiebreak", sort: SortByVotes, wantOrder: "ORDER BY vote_score DESC, id ASC"},
		{name: "by date newest first", sort: SortByDate, wantOrder: "ORDER BY added_at DESC, id DESC"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()

			repo := NewMySQLTrackRepository(db)

			now := time.Now()
			rows := trackRows().
				AddRow(int64(1), "Crazy Train", "Ozzy", "http://c/1.jpg", 213, "youtube", "http://y/1", int64(1), int64(2), "alice", 3, now).
				AddRow(int64(2), "Barracuda", "Heart", "http://c/2.jpg", 260, "youtube", "http://y/2", int64(1), int64(3), "bob", 3, now)

			mock.ExpectQuery("SELECT (.+) FROM tracks WHERE playlist_id = \\? " + regexp.QuoteMeta(tc.wantOrder)).
				WithArgs(int64(1)).
				WillReturnRows(rows)

			tracks, err := repo.ListByPlaylist(1, tc.sort)
			if err != nil {
				t.Fatalf("ListByPlaylist error: %v", err)
			}
			if len(tracks) != 2 {
				t.Fatalf("expected 2 tracks, got %d", len(tracks))
			}
			if tracks[0].ID != 1 || tracks[1].ID != 2 {
				t.Fatalf("row order not preserved: %d, %d", tracks[0].ID, tracks[1].ID)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestDeleteTrackCascadesVotes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLTrackRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM track_votes WHERE track_id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tracks WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.DeleteTrack(5)
	if err != nil {
		t.Fatalf("DeleteTrack error: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTrackMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLTrackRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM track_votes WHERE track_id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tracks WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.DeleteTrack(5)
	if err != nil {
		t.Fatalf("DeleteTrack error: %v", err)
	}
	if deleted {
		t.Fatal("expected deleted=false for missing track")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrackIgnoresVoteScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLTrackRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tracks SET title = ? WHERE id = ?")).
		WithArgs("New Title", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateTrack(5, map[string]interface{}{
		"title":     "New Title",
		"voteScore": 999,
	})
	if err != nil {
		t.Fatalf("UpdateTrack error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrackNoWritableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLTrackRepository(db)

	// No Exec expected: an update touching only unwritable fields is a no-op.
	err = repo.UpdateTrack(5, map[string]interface{}{"voteScore": 999})
	if err != nil {
		t.Fatalf("UpdateTrack error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
