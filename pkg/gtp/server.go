// Package gtp speaks the Go Text Protocol on top of an engine.Engine and
// drives GTP engines running as subprocesses.
package gtp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ExploreNcrack/Comput496/internal/engine"
	"github.com/ExploreNcrack/Comput496/internal/sim"
	"github.com/ExploreNcrack/Comput496/internal/solver"
	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// ProtocolVersion is the GTP version this server implements.
const ProtocolVersion = "2"

// errQuit ends Run after the quit reply is written.
var errQuit = errors.New("quit")

type handler func(ctx context.Context, args []string) (string, error)

type command struct {
	args  int // exact argument count, -1 to skip the check
	usage string
	run   handler
}

// Server answers GTP commands for one engine. It is not safe for concurrent use.
type Server struct {
	eng      *engine.Engine
	name     string
	version  string
	commands map[string]command
}

// NewServer creates a Server for eng.
func NewServer(eng *engine.Engine, name, version string) *Server {
	s := &Server{eng: eng, name: name, version: version}
	s.commands = map[string]command{
		"protocol_version":         {0, "", s.protocolVersion},
		"name":                     {0, "", s.nameCmd},
		"version":                  {0, "", s.versionCmd},
		"known_command":            {1, "Usage: known_command CMD_NAME", s.knownCommand},
		"list_commands":            {0, "", s.listCommands},
		"quit":                     {-1, "", s.quit},
		"boardsize":                {1, "Usage: boardsize INT", s.boardsize},
		"clear_board":              {0, "", s.clearBoard},
		"komi":                     {1, "Usage: komi FLOAT", s.komi},
		"play":                     {2, "Usage: play {b,w} MOVE", s.play},
		"genmove":                  {1, "Usage: genmove {w,b}", s.genmove},
		"undo":                     {0, "", s.undo},
		"legal_moves":              {1, "Usage: legal_moves {w,b}", s.legalMoves},
		"showboard":                {0, "", s.showboard},
		"solve":                    {0, "", s.solve},
		"timelimit":                {1, "Usage: timelimit INT", s.timelimit},
		"policy":                   {1, "Usage: policy {random,rule_based}", s.policy},
		"policy_moves":             {0, "", s.policyMoves},
		"gogui-rules_game_id":      {0, "", s.gameID},
		"gogui-rules_board_size":   {0, "", s.boardSize},
		"gogui-rules_legal_moves":  {0, "", s.rulesLegalMoves},
		"gogui-rules_side_to_move": {0, "", s.sideToMove},
		"gogui-rules_board":        {0, "", s.rulesBoard},
		"gogui-rules_final_result": {0, "", s.finalResult},
		"gogui-analyze_commands":   {0, "", s.analyzeCommands},
	}
	return s
}

// Run reads commands from in and writes replies to out until quit, EOF or
// cancellation of ctx.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		reply, err := s.Execute(ctx, scanner.Text())
		if reply == "" && err == nil {
			continue
		}
		if _, werr := io.WriteString(w, reply); werr != nil {
			return werr
		}
		if werr := w.Flush(); werr != nil {
			return werr
		}
		if errors.Is(err, errQuit) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line and returns the formatted reply. Blank and
// comment lines return an empty reply. A leading numeric id is echoed after
// the status character.
func (s *Server) Execute(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return "", nil
	}
	fields := strings.Fields(line)
	var id string
	if isID(fields[0]) {
		id, fields = fields[0], fields[1:]
	}
	if len(fields) == 0 {
		return "", nil
	}
	name, args := fields[0], fields[1:]

	cmd, ok := s.commands[name]
	if !ok {
		log.Debug().Str("command", name).Msg("unknown command")
		return failure(id, "unknown command"), nil
	}
	if cmd.args >= 0 && len(args) != cmd.args {
		return failure(id, cmd.usage), nil
	}

	start := time.Now()
	msg, err := cmd.run(ctx, args)
	log.Debug().
		Str("command", name).
		Strs("args", args).
		Err(err).
		Dur("elapsed", time.Since(start)).
		Msg("gtp command")
	switch {
	case errors.Is(err, errQuit):
		return success(id, ""), err
	case err != nil:
		return failure(id, err.Error()), nil
	}
	return success(id, msg), nil
}

func success(id, msg string) string { return "=" + id + " " + msg + "\n\n" }
func failure(id, msg string) string { return "?" + id + " " + msg + "\n\n" }

func isID(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (s *Server) protocolVersion(context.Context, []string) (string, error) {
	return ProtocolVersion, nil
}

func (s *Server) nameCmd(context.Context, []string) (string, error) { return s.name, nil }

func (s *Server) versionCmd(context.Context, []string) (string, error) { return s.version, nil }

func (s *Server) knownCommand(_ context.Context, args []string) (string, error) {
	if _, ok := s.commands[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func (s *Server) listCommands(context.Context, []string) (string, error) {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, "\n"), nil
}

func (s *Server) quit(context.Context, []string) (string, error) { return "", errQuit }

func (s *Server) boardsize(_ context.Context, args []string) (string, error) {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("board size is not an integer")
	}
	if err := s.eng.Reset(size); err != nil {
		return "", fmt.Errorf("unacceptable size")
	}
	return "", nil
}

func (s *Server) clearBoard(context.Context, []string) (string, error) {
	return "", s.eng.Reset(s.eng.Size())
}

// komi is accepted for controller compatibility; neither rule set scores territory.
func (s *Server) komi(_ context.Context, args []string) (string, error) {
	if _, err := strconv.ParseFloat(args[0], 64); err != nil {
		return "", fmt.Errorf("komi is not a number")
	}
	return "", nil
}

func (s *Server) play(_ context.Context, args []string) (string, error) {
	color, err := ParseColor(args[0])
	if err != nil {
		return "", fmt.Errorf("illegal move: %q wrong color", args[0])
	}
	b := s.eng.Board()
	p, err := ParsePoint(b, args[1])
	if err != nil {
		return "", fmt.Errorf("illegal move: %q wrong coordinate", args[1])
	}
	if p != board.Pass && b.Get(p) != board.Empty {
		return "", fmt.Errorf("illegal move: %q occupied", args[1])
	}
	if err := s.eng.PlayMove(p, color); err != nil {
		return "", fmt.Errorf("illegal move: %q %s", args[1], strings.TrimPrefix(err.Error(), board.ErrIllegalMove.Error()+": "))
	}
	return "", nil
}

func (s *Server) genmove(ctx context.Context, args []string) (string, error) {
	color, err := ParseColor(args[0])
	if err != nil {
		return "", err
	}
	if st := s.eng.Status(); st.Ended {
		if st.Winner == color || st.Draw {
			return "pass", nil
		}
		return "resign", nil
	}
	mv, err := s.eng.GenerateMove(ctx, color)
	if err != nil {
		return "", err
	}
	return FormatPoint(s.eng.Board(), mv), nil
}

func (s *Server) undo(context.Context, []string) (string, error) {
	if err := s.eng.Undo(); err != nil {
		return "", fmt.Errorf("cannot undo")
	}
	return "", nil
}

func (s *Server) legalMoves(_ context.Context, args []string) (string, error) {
	color, err := ParseColor(args[0])
	if err != nil {
		return "", err
	}
	return s.formatMoves(s.eng.LegalMoves(color)), nil
}

// formatMoves renders moves sorted by their text, as controllers expect.
func (s *Server) formatMoves(moves []board.Point) string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = FormatPoint(s.eng.Board(), m)
	}
	slices.Sort(out)
	return strings.Join(out, " ")
}

func (s *Server) showboard(context.Context, []string) (string, error) {
	return "\n" + s.eng.BoardText(), nil
}

func (s *Server) solve(ctx context.Context, _ []string) (string, error) {
	res, err := s.eng.Solve(ctx)
	if err != nil {
		return "", err
	}
	b := s.eng.Board()
	switch res.Verdict {
	case solver.Win:
		if res.Move == board.NoPoint {
			return colorLetter(res.ToPlay), nil
		}
		return colorLetter(res.ToPlay) + " " + FormatPoint(b, res.Move), nil
	case solver.Lose:
		return colorLetter(res.ToPlay.Opponent()), nil
	case solver.Draw:
		if res.Move == board.NoPoint {
			return "draw", nil
		}
		return "draw " + FormatPoint(b, res.Move), nil
	}
	return "unknown", nil
}

func (s *Server) timelimit(_ context.Context, args []string) (string, error) {
	secs, err := strconv.Atoi(args[0])
	if err != nil || secs < 0 {
		return "", fmt.Errorf("time limit must be a non-negative integer")
	}
	s.eng.SetTimeLimit(time.Duration(secs) * time.Second)
	return "", nil
}

func (s *Server) policy(_ context.Context, args []string) (string, error) {
	p, err := sim.ParsePolicy(args[0])
	if err != nil {
		return "", err
	}
	s.eng.SetPolicy(p)
	return "", nil
}

func (s *Server) policyMoves(context.Context, []string) (string, error) {
	if s.eng.Mode() != engine.Gomoku {
		return "", engine.ErrUnsupported
	}
	kind, moves := s.eng.PolicyMoves()
	if len(moves) == 0 {
		return "", nil
	}
	return kind.String() + " " + s.formatMoves(moves), nil
}

func (s *Server) gameID(context.Context, []string) (string, error) {
	if s.eng.Mode() == engine.Go {
		return "Go", nil
	}
	return "Gomoku", nil
}

func (s *Server) boardSize(context.Context, []string) (string, error) {
	return strconv.Itoa(s.eng.Size()), nil
}

func (s *Server) rulesLegalMoves(context.Context, []string) (string, error) {
	return s.formatMoves(s.eng.LegalMoves(s.eng.Current())), nil
}

func (s *Server) sideToMove(context.Context, []string) (string, error) {
	return s.eng.Current().String(), nil
}

func (s *Server) rulesBoard(context.Context, []string) (string, error) {
	return s.eng.BoardText() + "\n", nil
}

func (s *Server) finalResult(context.Context, []string) (string, error) {
	st := s.eng.Status()
	switch {
	case st.Draw:
		return "draw", nil
	case st.Ended:
		return st.Winner.String(), nil
	}
	return "unknown", nil
}

func (s *Server) analyzeCommands(context.Context, []string) (string, error) {
	return "pstring/Legal Moves For ToPlay/gogui-rules_legal_moves\n" +
		"pstring/Side to Play/gogui-rules_side_to_move\n" +
		"pstring/Final Result/gogui-rules_final_result\n" +
		"pstring/Board Size/gogui-rules_board_size\n" +
		"pstring/Rules GameID/gogui-rules_game_id\n" +
		"pstring/Show Board/gogui-rules_board\n" +
		"pstring/Policy Moves/policy_moves\n" +
		"pstring/Solve/solve", nil
}
