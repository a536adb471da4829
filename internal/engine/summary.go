package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/arenalabs/saboteur-arena/internal/fileutil"
	"github.com/arenalabs/saboteur-arena/internal/ledger"
	"github.com/arenalabs/saboteur-arena/internal/registry"
)

// Summary is the persisted record of one run. One JSON file per run; nothing
// else survives the process.
type Summary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Rounds     int       `json:"rounds"`
	EndReason  EndReason `json:"end_reason"`

	Roles       map[string]string `json:"roles"`
	Eliminated  []string          `json:"eliminated"`
	Leaderboard []ledger.Standing `json:"leaderboard"`
	PointLog    []ledger.Entry    `json:"point_log"`

	Submissions map[string]registry.Counts `json:"submissions"`
	// Collaboration counts completed reviews by reviewer role then author role.
	Collaboration  map[string]map[string]int `json:"collaboration"`
	BuggyApprovals map[string]int            `json:"buggy_approvals"`

	Beliefs  map[string]map[string]map[string]int `json:"beliefs"`
	RoleBets map[string]BetResult                 `json:"role_bets"`
	Activity []string                             `json:"activity"`
}

func (e *Engine) buildSummary(started time.Time, bets map[string]BetResult) *Summary {
	roles := make(map[string]string)
	subs := make(map[string]registry.Counts)
	for _, a := range e.cast.Actors() {
		roles[a.ID] = a.Role.String()
		subs[a.ID] = e.subs.CountsFor(a.ID)
	}

	return &Summary{
		RunID:          uuid.NewString(),
		StartedAt:      started,
		FinishedAt:     time.Now(),
		Rounds:         e.round,
		EndReason:      e.endReason,
		Roles:          roles,
		Eliminated:     append([]string(nil), e.eliminated...),
		Leaderboard:    e.scores.Leaderboard(),
		PointLog:       e.scores.Entries(),
		Submissions:    subs,
		Collaboration:  e.collab,
		BuggyApprovals: e.buggyOKs,
		Beliefs:        e.beliefs.Snapshot(),
		RoleBets:       bets,
		Activity:       append([]string(nil), e.activity...),
	}
}

// WriteFile persists the summary as pretty-printed JSON under dir, creating
// the directory if needed, and returns the written path. The write is atomic
// so result collectors never observe a partial file.
func (s *Summary) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", s.RunID))
	if err := fileutil.WriteFileAtomic(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}
