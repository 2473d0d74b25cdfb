package finder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/productfinder/mcptool"
)

// Version is reported to the server during the MCP handshake.
const Version = "1.0.0"

// Session is the single MCP connection the opener uses for a whole run.
// It supports concurrent SearchProduct calls. Close is idempotent.
type Session struct {
	client    *client.Client
	closeOnce sync.Once
	closeErr  error
}

// OpenStdio spawns command as an MCP stdio server and initializes a session.
// The server runs detached from the terminal's process group so an interrupt
// reaches only the opener, which then closes the session itself.
func OpenStdio(ctx context.Context, command string, args, env []string) (*Session, error) {
	slog.Info("starting MCP server process", "command", command, "args", args)
	c, err := client.NewStdioMCPClientWithOptions(command, env, args,
		transport.WithCommandFunc(serverCommand),
	)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}
	if stderr, ok := client.GetStderr(c); ok {
		go forwardStderr(stderr)
	}
	return NewSession(ctx, c)
}

// serverCommand builds the server process. It is not bound to ctx: the
// process lives until Close.
func serverCommand(_ context.Context, command string, env, args []string) (*exec.Cmd, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = append(os.Environ(), env...)
	detach(cmd)
	return cmd, nil
}

// forwardStderr drains the server's log stream into ours until the pipe
// closes. An undrained pipe would stall the server once it fills.
func forwardStderr(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		slog.Debug("server log", "line", sc.Text())
	}
	// Keep draining past an oversized line.
	_, _ = io.Copy(io.Discard, r)
}

// OpenInProcess connects to an MCP server living in this process.
func OpenInProcess(ctx context.Context, s *server.MCPServer) (*Session, error) {
	c, err := client.NewInProcessClient(s)
	if err != nil {
		return nil, fmt.Errorf("in-process client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("start in-process client: %w", err)
	}
	return NewSession(ctx, c)
}

// NewSession runs the MCP initialize handshake on a started client.
// The client is closed if the handshake fails.
func NewSession(ctx context.Context, c *client.Client) (*Session, error) {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "amazon-opener",
		Version: Version,
	}

	info, err := c.Initialize(ctx, initReq)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize MCP session: %w", err)
	}
	slog.Info("MCP session ready",
		"server", info.ServerInfo.Name,
		"serverVersion", info.ServerInfo.Version,
	)
	return &Session{client: c}, nil
}

// SearchProduct calls search_amazon. A non-nil error means the call itself
// failed; everything the server answered is carried by the Result.
func (s *Session) SearchProduct(ctx context.Context, query string) (mcptool.Result, error) {
	res, err := s.client.CallTool(ctx, mcptool.NewCallRequest(query))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", mcptool.ToolName, err)
	}
	return mcptool.Decode(res), nil
}

// Close shuts the connection down, terminating a spawned server.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		slog.Info("shutting down MCP session")
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}
