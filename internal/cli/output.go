package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case []PlayerStats:
		o.printLeaderboard(v)
	case []MatchSummary:
		o.printMatchSummaries(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type (matches API)
type HealthResult struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	ActiveGames int       `json:"activeGames"`
	ActiveUsers int       `json:"activeUsers"`
}

// PlayerStats response type
type PlayerStats struct {
	Username    string  `json:"username"`
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
	WinRate     float64 `json:"winRate"`
}

// MatchSummary response type
type MatchSummary struct {
	MatchID     string    `json:"matchId"`
	MatchName   string    `json:"matchName"`
	Players     []string  `json:"players"`
	Winner      string    `json:"winner"`
	CompletedAt time.Time `json:"completedAt"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Time: %s\n", h.Timestamp.Format(time.RFC3339))
	fmt.Printf("Active Games: %d\n", h.ActiveGames)
	fmt.Printf("Active Users: %d\n", h.ActiveUsers)
}

func (o *Output) printPlayerStats(p PlayerStats) {
	fmt.Printf("Player: %s\n", p.Username)
	fmt.Printf("Games: %d\n", p.GamesPlayed)
	fmt.Printf("Wins: %d  Losses: %d  Draws: %d\n", p.Wins, p.Losses, p.Draws)
	fmt.Printf("Win Rate: %.2f%%\n", p.WinRate)
}

func (o *Output) printLeaderboard(entries []PlayerStats) {
	if len(entries) == 0 {
		fmt.Println("No ranked players yet")
		return
	}
	fmt.Printf("%-4s %-20s %6s %5s %7s %6s %8s\n", "#", "Player", "Games", "Wins", "Losses", "Draws", "Win Rate")
	for i, p := range entries {
		fmt.Printf("%-4d %-20s %6d %5d %7d %6d %7.2f%%\n",
			i+1, p.Username, p.GamesPlayed, p.Wins, p.Losses, p.Draws, p.WinRate)
	}
}

func (o *Output) printMatchSummaries(summaries []MatchSummary) {
	if len(summaries) == 0 {
		fmt.Println("No completed matches yet")
		return
	}
	for _, s := range summaries {
		outcome := s.Winner
		if outcome != "draw" {
			outcome = "won by " + s.Winner
		}
		fmt.Printf("%s  %s (%s) - %s\n",
			s.CompletedAt.Format(time.RFC3339),
			s.MatchName,
			strings.Join(s.Players, " vs "),
			outcome)
	}
}
