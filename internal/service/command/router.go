package command

import (
	"context"
	"sort"
	"strings"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
)

// Failed is shown whenever a command errors; details only go to the log.
const Failed = "Sorry, something went wrong. Please try again later."

type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Parse splits "/name@bot arg1 arg2" into the command name and its args.
func Parse(input string) (string, []string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", nil, false
	}
	return strings.ToLower(name), parts[1:], true
}

func (c *Router) Execute(ctx context.Context, name string, req core.Request) (string, bool) {
	cmd, ok := c.commands[name]
	if !ok {
		return "", false
	}

	logger := log.FromCtx(ctx).With().
		Str("command", name).
		Int64("chat_id", req.Key.ChatID).
		Int64("topic_id", req.Key.TopicID).
		Logger()
	logger.Info().Msg("command received")

	result, err := cmd.Execute(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("command failed")
		return Failed, true
	}
	return result, true
}

// ListCommands returns the registered commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})
	return res
}
