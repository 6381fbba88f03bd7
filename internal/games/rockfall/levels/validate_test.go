package levels_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
)

func TestValidateCodes(t *testing.T) {
	tests := []struct {
		name string
		lvl  levels.Level
		code string
	}{
		{"empty map", levels.Level{ID: "a"}, "BAD_SIZE"},
		{"ragged", levels.Level{ID: "a", Width: 3, Height: 2, Rows: []string{"#P#", "##"}}, "RAGGED_ROWS"},
		{"unknown tile", levels.Level{ID: "a", Width: 3, Height: 1, Rows: []string{"#PX"}}, "UNKNOWN_TILE"},
		{"no player", levels.Level{ID: "a", Width: 3, Height: 1, Rows: []string{"#.#"}}, "NO_PLAYER"},
		{"two players", levels.Level{ID: "a", Width: 3, Height: 1, Rows: []string{"PP#"}}, "MULTIPLE_PLAYERS"},
		{"not enough diamonds", levels.Level{ID: "a", Width: 3, Height: 1, Rows: []string{"P*#"}, DiamondsNeeded: 2}, "NOT_ENOUGH_DIAMONDS"},
		{"negative time", levels.Level{ID: "a", Width: 3, Height: 1, Rows: []string{"P*#"}, TimeLimit: -1}, "BAD_TIME_LIMIT"},
		{"valid", levels.Level{ID: "a", Width: 3, Height: 1, Rows: []string{"P*_"}, DiamondsNeeded: 1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := levels.Validate(tt.lvl)
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var ve levels.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %v is not a ValidationError", err)
			}
			if ve.Code != tt.code {
				t.Errorf("code = %s, want %s", ve.Code, tt.code)
			}
		})
	}
}
