package main

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Player is the part of a GTP engine a game needs.
type Player interface {
	Send(ctx context.Context, command string) (string, error)
}

// GameResult is the outcome of one game.
type GameResult struct {
	Game   int    `json:"game"`
	Black  string `json:"black"`            // which engine played black
	Result string `json:"result"`           // black, white or draw
	Winner string `json:"winner,omitempty"` // a or b
	Moves  int    `json:"moves"`
	Resign bool   `json:"resign,omitempty"`
}

// PlayGame plays one game on a fresh board. The mover's own
// gogui-rules_final_result decides when the game is over; two passes in a
// row or an exhausted move budget end it as a draw.
func PlayGame(ctx context.Context, size int, black, white Player, moveTimeout time.Duration) (*GameResult, error) {
	for _, p := range []Player{black, white} {
		if _, err := p.Send(ctx, fmt.Sprintf("boardsize %d", size)); err != nil {
			return nil, err
		}
		if _, err := p.Send(ctx, "clear_board"); err != nil {
			return nil, err
		}
	}

	players := [2]Player{black, white}
	letters := [2]string{"b", "w"}
	names := [2]string{"black", "white"}
	maxMoves := 3 * size * size
	passes := 0

	r := &GameResult{}
	for turn := 0; r.Moves < maxMoves; turn = 1 - turn {
		mover, other := players[turn], players[1-turn]

		mctx, cancel := context.WithTimeout(ctx, moveTimeout)
		mv, err := mover.Send(mctx, "genmove "+letters[turn])
		cancel()
		if err != nil {
			return nil, fmt.Errorf("genmove %s: %w", names[turn], err)
		}
		r.Moves++

		switch strings.ToLower(mv) {
		case "resign":
			r.Result, r.Resign = names[1-turn], true
			return r, nil
		case "pass":
			passes++
		default:
			passes = 0
			if _, err := other.Send(ctx, fmt.Sprintf("play %s %s", letters[turn], mv)); err != nil {
				return nil, fmt.Errorf("play %s %s: %w", names[turn], mv, err)
			}
		}

		res, err := mover.Send(ctx, "gogui-rules_final_result")
		if err != nil {
			return nil, err
		}
		switch res {
		case "black", "white", "draw":
			r.Result = res
			return r, nil
		}
		if passes >= 2 {
			break
		}
	}
	r.Result = "draw"
	return r, nil
}

// Summary aggregates a match.
type Summary struct {
	Completed int     `json:"completed"`
	Errors    int     `json:"errors"`
	WinsA     int     `json:"wins_a"`
	WinsB     int     `json:"wins_b"`
	Draws     int     `json:"draws"`
	BlackWins int     `json:"black_wins"`
	WhiteWins int     `json:"white_wins"`
	AvgMoves  float64 `json:"avg_moves"`
}

// Summarize counts finished games; nil entries are games that did not finish.
func Summarize(results []*GameResult, errCount int) Summary {
	s := Summary{Errors: errCount}
	moves := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Completed++
		moves += r.Moves
		switch r.Winner {
		case "a":
			s.WinsA++
		case "b":
			s.WinsB++
		default:
			s.Draws++
		}
		switch r.Result {
		case "black":
			s.BlackWins++
		case "white":
			s.WhiteWins++
		}
	}
	if s.Completed > 0 {
		s.AvgMoves = float64(moves) / float64(s.Completed)
	}
	return s
}
