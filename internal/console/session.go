package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pumpbank"
	"pumpbank/internal/logger"
	"pumpbank/internal/models"
	"pumpbank/internal/service"
)

// maxLineLen bounds the line buffer. Anything longer without a line feed
// is drained through the next line feed and rejected.
const maxLineLen = 256

const invalidCommandReply = "INVALID COMMAND"

var errLineOverflow = errors.New("console: line exceeds buffer")

// Session services one operator connection: it frames newline-terminated
// lines from r, dispatches them against the command table and writes the
// reply to w before reading the next line.
type Session struct {
	services *service.Service
	r        *bufio.Reader
	w        io.Writer
	senseOn  bool
	log      *logger.Logger
}

func NewSession(services *service.Service, r io.Reader, w io.Writer, senseOn bool, log *logger.Logger) *Session {
	return &Session{
		services: services,
		r:        bufio.NewReader(r),
		w:        w,
		senseOn:  senseOn,
		log:      log,
	}
}

// Run answers lines until EOF or a transport error. Garbage input is
// diagnosed and never ends the session.
func (s *Session) Run(ctx context.Context) error {
	for {
		line, err := s.readLine()
		if errors.Is(err, errLineOverflow) {
			if werr := s.reply(invalidCommandReply); werr != nil {
				return werr
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := s.dispatch(ctx, line); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// readLine accumulates bytes until a line feed. The line feed is consumed
// and not returned; a partial line at EOF is discarded.
func (s *Session) readLine() (string, error) {
	buf := make([]byte, 0, 64)
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			return string(buf), nil
		}
		if len(buf) == maxLineLen {
			for {
				b, err := s.r.ReadByte()
				if err != nil {
					return "", err
				}
				if b == '\n' {
					return "", errLineOverflow
				}
			}
		}
		buf = append(buf, b)
	}
}

func (s *Session) dispatch(ctx context.Context, line string) error {
	req, ok := ParseLine(line)
	if !ok {
		return s.reply(invalidCommandReply)
	}
	s.log.Debugw("console command", "cmd", req.Cmd.String(), "arg", req.Arg)

	switch req.Cmd {
	case CmdReadProfile:
		return s.readProfile(ctx)
	case CmdWriteTime:
		return s.writeTime(ctx, req.Arg)
	case CmdLogData:
		return s.logData(ctx)
	case CmdDisplayData:
		return s.displayData(ctx)
	case CmdSetInterval:
		return s.setInterval(req.Arg)
	case CmdPause:
		return s.pause(ctx)
	case CmdReset:
		return s.reset(ctx)
	case CmdVersion:
		return s.version()
	case CmdShowMenu:
		return s.menu()
	default:
		return s.reply(invalidCommandReply)
	}
}

// reply writes the given lines followed by a blank separator line.
func (s *Session) reply(lines ...string) error {
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(ln)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(s.w, b.String())
	return err
}

// replyError maps service errors onto operator diagnostics. The command is
// considered handled either way; only transport errors end the session.
func (s *Session) replyError(err error) error {
	var oor *service.OutOfRangeError
	if errors.As(err, &oor) {
		return s.reply(fmt.Sprintf("VALUE OUT OF RANGE (%d-%d MS)", models.MinDurationMs, models.MaxDurationMs))
	}
	s.log.Errorw("console command failed", "err", err)
	return s.reply("COMMAND FAILED")
}

func (s *Session) readProfile(ctx context.Context) error {
	rec, _, err := s.services.Profile(ctx)
	if err != nil {
		return s.replyError(err)
	}
	return s.reply(
		fmt.Sprintf("STORED CYCLES: %d OVERFLOWS: %d", rec.ActiveCycles, rec.Overflows),
		fmt.Sprintf("STORED CYCLE TIME: %d MS", rec.CycleTimeMs),
	)
}

func (s *Session) writeTime(ctx context.Context, ms uint64) error {
	chg, err := s.services.SetCycleTime(ctx, ms)
	if err != nil {
		return s.replyError(err)
	}
	return s.reply(
		fmt.Sprintf("CYCLE TIME %d -> %d MS", chg.OldMs, chg.NewMs),
		"COUNTERS CLEARED",
	)
}

func (s *Session) logData(ctx context.Context) error {
	rec, err := s.services.Checkpoint(ctx)
	if err != nil {
		return s.replyError(err)
	}
	return s.reply(fmt.Sprintf("SAVED CYCLES: %d OVERFLOWS: %d", rec.ActiveCycles, rec.Overflows))
}

func (s *Session) displayData(ctx context.Context) error {
	snap, err := s.services.GetState(ctx)
	if err != nil {
		return s.replyError(err)
	}
	engine := snap.Engine
	if snap.FaultChannel > 0 {
		engine = fmt.Sprintf("%s PUMP %d", snap.Engine, snap.FaultChannel)
	}
	return s.reply(
		fmt.Sprintf("CYCLES: %d OVERFLOWS: %d", snap.Account.Cycles, snap.Account.Overflows),
		fmt.Sprintf("CYCLE TIME: %d MS INTERVAL: %d MS", snap.Timing.CycleTimeMs, snap.Timing.IntervalMs),
		fmt.Sprintf("ENGINE: %s", engine),
	)
}

func (s *Session) setInterval(ms uint64) error {
	chg, err := s.services.SetInterval(ms)
	if err != nil {
		return s.replyError(err)
	}
	return s.reply(fmt.Sprintf("INTERVAL %d -> %d MS", chg.OldMs, chg.NewMs))
}

// pause gates the engine, shows the operator the frozen state and blocks
// until one more byte arrives. The byte is discarded. A connection that
// drops during the wait still releases the gate.
func (s *Session) pause(ctx context.Context) error {
	s.services.Pause(ctx)
	if err := s.displayData(ctx); err != nil {
		return err
	}
	if err := s.reply("PAUSED - SEND ANY BYTE TO RESUME"); err != nil {
		return err
	}
	_, err := s.r.ReadByte()
	s.services.Resume(ctx)
	if err != nil {
		return err
	}
	return s.reply("RESUMED")
}

func (s *Session) reset(ctx context.Context) error {
	if _, err := s.services.Reset(ctx); err != nil {
		return s.replyError(err)
	}
	return s.reply(
		"PROFILE RESET TO DEFAULTS",
		"RESTART REQUIRED TO APPLY",
	)
}

func (s *Session) version() error {
	sense := "OFF"
	if s.senseOn {
		sense = "ON"
	}
	return s.reply(fmt.Sprintf("PUMPBANK %s SENSE:%s", pumpbank.Version, sense))
}

func (s *Session) menu() error {
	return s.reply(
		"R; READ STORED PROFILE",
		fmt.Sprintf("W;<MS> SET CYCLE TIME (%d-%d)", models.MinDurationMs, models.MaxDurationMs),
		"S; SAVE COUNTERS",
		"D; DISPLAY LIVE DATA",
		fmt.Sprintf("I;<MS> SET CYCLE INTERVAL (%d-%d)", models.MinDurationMs, models.MaxDurationMs),
		"P; PAUSE UNTIL NEXT BYTE",
		"X; RESET PROFILE TO DEFAULTS",
		"V; VERSION",
		"M; THIS MENU",
	)
}
