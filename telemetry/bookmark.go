package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBeaconReached       BookmarkType = "beacon_reached"
	BookmarkFitnessBreakthrough BookmarkType = "fitness_breakthrough"
	BookmarkDiversityEmerged    BookmarkType = "diversity_emerged"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting generations in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	multiplier float64

	// One-shot milestones
	beaconSeen    bool
	diversitySeen bool
}

// NewBookmarkDetector creates a detector with the given history size.
// multiplier is how far above the rolling average best fitness a generation
// must land to count as a breakthrough.
func NewBookmarkDetector(historySize int, multiplier float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	if multiplier <= 1 {
		multiplier = 2
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
		multiplier:  multiplier,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if !bd.beaconSeen && stats.Reached > 0 {
		bd.beaconSeen = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkBeaconReached,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("%d psychics finished next to the beacon", stats.Reached),
		})
	}

	if !bd.diversitySeen && stats.Diverse > 0 {
		bd.diversitySeen = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkDiversityEmerged,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("%d psychics earned the diversity bonus", stats.Diverse),
		})
	}

	if b := bd.checkFitnessBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFitnessBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.FitnessMax
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.FitnessMax > avg*bd.multiplier {
		return &Bookmark{
			Type:        BookmarkFitnessBreakthrough,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Best fitness %.1f is %.1fx average (%.1f)", stats.FitnessMax, stats.FitnessMax/avg, avg),
		}
	}

	return nil
}
