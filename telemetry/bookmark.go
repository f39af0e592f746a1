package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPerfectRound BookmarkType = "perfect_round"
	BookmarkBestScore    BookmarkType = "best_score"
	BookmarkFastestClear BookmarkType = "fastest_clear"
	BookmarkSlump        BookmarkType = "slump"
)

// Bookmark is a noteworthy round picked out of the run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Round       int          `csv:"round"`
	Tier        string       `csv:"tier"`
	Grid        string       `csv:"grid"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"round", b.Round,
		"tier", b.Tier,
		"description", b.Description,
	)
}

// BookmarkDetector picks out interesting rounds. Score and time records are
// kept per tier and grid, since rounds of different shapes are not comparable.
type BookmarkDetector struct {
	history     []RoundStats
	historySize int
	historyIdx  int
	historyFull bool

	bestScore    map[string]int
	fastestClear map[string]float64
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:      make([]RoundStats, historySize),
		historySize:  historySize,
		bestScore:    make(map[string]int),
		fastestClear: make(map[string]float64),
	}
}

// Check analyzes a finished round and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats RoundStats) []Bookmark {
	var bookmarks []Bookmark
	key := stats.Tier + "/" + stats.Grid

	if stats.Complete && stats.Mismatches == 0 {
		bookmarks = append(bookmarks, bd.bookmark(stats, BookmarkPerfectRound,
			fmt.Sprintf("Cleared %d pairs without a mismatch", stats.Pairs)))
	}

	if best, ok := bd.bestScore[key]; !ok || stats.Score > best {
		if ok {
			bookmarks = append(bookmarks, bd.bookmark(stats, BookmarkBestScore,
				fmt.Sprintf("Score %d beats previous best %d", stats.Score, best)))
		}
		bd.bestScore[key] = stats.Score
	}

	if stats.Complete {
		if fastest, ok := bd.fastestClear[key]; !ok || stats.ElapsedSec < fastest {
			if ok {
				bookmarks = append(bookmarks, bd.bookmark(stats, BookmarkFastestClear,
					fmt.Sprintf("Cleared in %.1fs, previous fastest %.1fs", stats.ElapsedSec, fastest)))
			}
			bd.fastestClear[key] = stats.ElapsedSec
		}
	}

	if b := bd.checkSlump(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

// checkSlump flags a round whose accuracy is under half the rolling average.
func (bd *BookmarkDetector) checkSlump(stats RoundStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Matches+stats.Mismatches == 0 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += h.Accuracy
	}
	avg := sum / float64(len(history))
	if avg == 0 || stats.Accuracy >= avg*0.5 {
		return nil
	}

	b := bd.bookmark(stats, BookmarkSlump,
		fmt.Sprintf("Accuracy %.2f is under half the recent average %.2f", stats.Accuracy, avg))
	return &b
}

func (bd *BookmarkDetector) bookmark(stats RoundStats, typ BookmarkType, desc string) Bookmark {
	return Bookmark{
		Type:        typ,
		Round:       stats.Round,
		Tier:        stats.Tier,
		Grid:        stats.Grid,
		Description: desc,
	}
}

func (bd *BookmarkDetector) addToHistory(stats RoundStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []RoundStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}
