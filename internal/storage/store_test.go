package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
	if store.Dialect() != DialectSQLite {
		t.Errorf("dialect = %s, want sqlite", store.Dialect())
	}
}

func TestParseDSN(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		dsn     string
		dialect Dialect
		source  string
	}{
		{"postgres://user:pw@localhost/rockfall?sslmode=disable", DialectPostgres, "postgres://user:pw@localhost/rockfall?sslmode=disable"},
		{"postgresql://localhost/rockfall", DialectPostgres, "postgresql://localhost/rockfall"},
		{"/tmp/scores.db", DialectSQLite, "/tmp/scores.db"},
		{"sqlite:///tmp/scores.db", DialectSQLite, "/tmp/scores.db"},
		{"~/scores.db", DialectSQLite, filepath.Join(home, "scores.db")},
		{"", DialectSQLite, filepath.Join(home, ".rockfall", "scores.db")},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			dialect, source, err := ParseDSN(tt.dsn)
			if err != nil {
				t.Fatalf("ParseDSN: %v", err)
			}
			if dialect != tt.dialect || source != tt.source {
				t.Errorf("ParseDSN(%q) = %s, %q; want %s, %q", tt.dsn, dialect, source, tt.dialect, tt.source)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM scores WHERE game_id = ? AND score > ? LIMIT ?"

	sqlite := &Store{dialect: DialectSQLite}
	if got := sqlite.rebind(q); got != q {
		t.Errorf("sqlite rebind changed the query: %s", got)
	}

	pg := &Store{dialect: DialectPostgres}
	want := "SELECT * FROM scores WHERE game_id = $1 AND score > $2 LIMIT $3"
	if got := pg.rebind(q); got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("rockfall", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("rockfall_endless", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("rockfall", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	for i, want := range []int{200, 100, 50} {
		if scores[i].Score != want {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, want)
		}
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	endless, err := store.TopScores("rockfall_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 || endless[0].Score != 500 {
		t.Errorf("endless scores = %+v", endless)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		if _, err := store.SaveScore("rockfall", i*10); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("rockfall", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(scores))
	}
	if scores[0].Score != 190 {
		t.Errorf("Expected top score 190, got %d", scores[0].Score)
	}

	all, err := store.AllScores("rockfall")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("rockfall")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty game, got %d", high)
	}

	store.SaveScore("rockfall", 100)
	store.SaveScore("rockfall", 300)
	store.SaveScore("rockfall", 200)

	high, err = store.HighScore("rockfall")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score 300, got %d", high)
	}
}

func TestStoreLevelRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []LevelRun{
		{GameID: "rockfall", LevelID: "01-first-dig", Outcome: "crushed", Diamonds: 2, Ticks: 40},
		{GameID: "rockfall", LevelID: "01-first-dig", Outcome: "complete", Diamonds: 5, Ticks: 120, TimeLeft: 90},
		{GameID: "rockfall", LevelID: "01-first-dig", Outcome: "complete", Diamonds: 4, Ticks: 150, TimeLeft: 70},
		{GameID: "rockfall", LevelID: "02-rockslide", Outcome: "time_up", Diamonds: 3, Ticks: 900},
	}
	for _, r := range runs {
		if _, err := store.SaveLevelRun(r); err != nil {
			t.Fatalf("SaveLevelRun() failed: %v", err)
		}
	}

	stats, err := store.LevelStatsFor("01-first-dig")
	if err != nil {
		t.Fatalf("LevelStatsFor() failed: %v", err)
	}
	want := LevelStats{LevelID: "01-first-dig", Attempts: 3, Completions: 2, MostDiamonds: 5, BestTimeLeft: 90}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}

	empty, err := store.LevelStatsFor("missing")
	if err != nil {
		t.Fatalf("LevelStatsFor() failed: %v", err)
	}
	if empty.Attempts != 0 {
		t.Errorf("missing level attempts = %d", empty.Attempts)
	}

	recent, err := store.RecentRuns("rockfall", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].LevelID != "02-rockslide" || recent[0].Outcome != "time_up" {
		t.Errorf("recent = %+v", recent)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("rockfall", 100)
	store.SaveScore("rockfall_endless", 300)
	store.SaveLevelRun(LevelRun{GameID: "rockfall", LevelID: "01-first-dig", Outcome: "complete"})

	if err := store.ClearScores("rockfall"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("rockfall", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	runs, _ := store.RecentRuns("rockfall", 10)
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	other, _ := store.TopScores("rockfall_endless", 10)
	if len(other) != 1 {
		t.Errorf("Expected other game untouched, got %d scores", len(other))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("rockfall", 100)
	store.SaveScore("rockfall", 300)

	stats, err := store.GetGameStats("rockfall")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("avg = %v, want 200", stats.AvgScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}
