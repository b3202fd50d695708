package gtp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrEngineClosed is returned by Send after Close or after the engine exited.
var ErrEngineClosed = errors.New("gtp: engine is closed")

// Client drives a GTP engine subprocess. It sends one command at a time and
// reads the reply that ends with a blank line.
type Client struct {
	path string
	args []string

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner

	mu     sync.Mutex
	closed bool
	exited chan struct{}
}

// NewClient creates a Client for the binary at path. The process is not
// started until Start is called.
func NewClient(path string, args ...string) *Client {
	return &Client{path: path, args: args}
}

// Start launches the engine and checks that it answers protocol_version.
func (c *Client) Start(ctx context.Context) error {
	if err := c.start(); err != nil {
		return fmt.Errorf("gtp: start engine: %w", err)
	}
	if _, err := c.Send(ctx, "protocol_version"); err != nil {
		c.Close()
		return fmt.Errorf("gtp: handshake: %w", err)
	}
	return nil
}

// Send writes one command and returns the reply text without the leading
// "= ". A "?" reply is returned as an error.
func (c *Client) Send(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.isAlive() {
		return "", ErrEngineClosed
	}
	if _, err := fmt.Fprintf(c.stdin, "%s\n", command); err != nil {
		return "", fmt.Errorf("gtp: write %q: %w", command, err)
	}
	text, err := c.readReply(ctx)
	if err != nil {
		return "", fmt.Errorf("gtp: %s: %w", command, err)
	}
	return text, nil
}

// Close sends quit and waits for the process to exit. If it does not exit
// within 3 seconds, it is killed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if c.stdin != nil {
		fmt.Fprintf(c.stdin, "quit\n")
		c.stdin.Close()
	}
	c.closed = true
	c.mu.Unlock()

	if c.exited != nil {
		select {
		case <-c.exited:
		case <-time.After(3 * time.Second):
			log.Warn().Str("engine", c.path).Msg("gtp engine did not exit within 3s, killing")
			if c.cmd != nil && c.cmd.Process != nil {
				c.cmd.Process.Kill()
			}
			<-c.exited
		}
	}
	return nil
}

func (c *Client) start() error {
	c.cmd = exec.Command(c.path, c.args...)

	var err error
	c.stdin, err = c.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	c.scanner = bufio.NewScanner(stdout)
	c.exited = make(chan struct{})

	if err := c.cmd.Start(); err != nil {
		return fmt.Errorf("start process: %w", err)
	}
	go func() {
		c.cmd.Wait()
		close(c.exited)
	}()
	return nil
}

// readReply collects lines up to the blank line that ends a reply. On
// cancellation the engine is killed, since the reply stream can no longer
// be resynchronised.
func (c *Client) readReply(ctx context.Context) (string, error) {
	ch := make(chan reply, 1)

	go func() {
		var lines []string
		for c.scanner.Scan() {
			line := strings.TrimRight(c.scanner.Text(), "\r")
			if line == "" {
				if len(lines) == 0 {
					continue
				}
				ch <- parseReply(lines)
				return
			}
			lines = append(lines, line)
		}
		if err := c.scanner.Err(); err != nil {
			ch <- reply{err: fmt.Errorf("scanner: %w", err)}
		} else {
			ch <- reply{err: fmt.Errorf("engine closed stdout before replying")}
		}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-ctx.Done():
		c.closed = true
		if c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
		return "", fmt.Errorf("context canceled waiting for reply: %w", ctx.Err())
	}
}

type reply struct {
	text string
	err  error
}

// parseReply turns "= text" or "? text" lines into a reply or an error.
func parseReply(lines []string) reply {
	first := lines[0]
	head := strings.TrimLeft(first[1:], "0123456789")
	text := strings.Join(append([]string{head}, lines[1:]...), "\n")
	text = strings.TrimSpace(text)
	switch first[0] {
	case '=':
		return reply{text: text}
	case '?':
		return reply{err: fmt.Errorf("engine error: %s", text)}
	}
	return reply{err: fmt.Errorf("malformed reply %q", first)}
}

func (c *Client) isAlive() bool {
	if c.exited == nil {
		return false
	}
	select {
	case <-c.exited:
		return false
	default:
		return true
	}
}
