// Package cli holds the operator subcommands of the portal binary.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hibiken/asynq"
	"github.com/spf13/pflag"

	"github.com/sportportal/portal/jobs"
)

// Enqueuer is the slice of asynq.Client the CLI needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Inspector is the slice of asynq.Inspector the CLI needs.
type Inspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	Close() error
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    Enqueuer
	inspector Inspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis options.
func NewJobsCLI(redisOpts asynq.RedisClientOpt) *JobsCLI {
	return NewJobsCLIWith(asynq.NewClient(redisOpts), asynq.NewInspector(redisOpts))
}

// NewJobsCLIWith wraps existing collaborators.
func NewJobsCLIWith(client Enqueuer, inspector Inspector) *JobsCLI {
	return &JobsCLI{client: client, inspector: inspector}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a payload-free job by name.
func (c *JobsCLI) Trigger(ctx context.Context, name string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	var task *asynq.Task
	switch name {
	case jobs.TaskTypeExpirePayments:
		task = jobs.NewExpirePaymentsTask()
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %q", name)
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault))
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
	}
	return stats, nil
}

// JobsUsage documents the jobs subcommand.
const JobsUsage = `usage: portal jobs trigger <name> [--json] | portal jobs stats [--json]`

// Run parses the jobs subcommand arguments and dispatches to the matching
// command. Flags may appear before or after positional arguments.
func (c *JobsCLI) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flagSet := pflag.NewFlagSet("jobs", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	jsonOutput := flagSet.Bool("json", false, "print JSON")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(stdout, JobsUsage)
			return 0
		}
		fmt.Fprintln(stderr, JobsUsage)
		return 2
	}

	opts := Options{JSONOutput: *jsonOutput, Stdout: stdout, Stderr: stderr}
	positional := flagSet.Args()
	if len(positional) == 0 {
		fmt.Fprintln(stderr, JobsUsage)
		return 2
	}
	switch positional[0] {
	case "trigger":
		if len(positional) != 2 {
			fmt.Fprintln(stderr, JobsUsage)
			return 2
		}
		return c.TriggerCommand(ctx, positional[1], opts)
	case "stats":
		if len(positional) != 1 {
			fmt.Fprintln(stderr, JobsUsage)
			return 2
		}
		return c.StatsCommand(ctx, opts)
	default:
		fmt.Fprintln(stderr, JobsUsage)
		return 2
	}
}

// Options control command output.
type Options struct {
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// TriggerCommand runs Trigger and returns a process exit code.
func (c *JobsCLI) TriggerCommand(ctx context.Context, name string, opts Options) int {
	info, err := c.Trigger(ctx, name)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "trigger %s: %v\n", name, err)
		return 1
	}
	if opts.JSONOutput {
		_ = json.NewEncoder(opts.Stdout).Encode(map[string]string{"id": info.ID, "type": info.Type, "queue": info.Queue})
		return 0
	}
	fmt.Fprintf(opts.Stdout, "enqueued %s as %s on %s\n", info.Type, info.ID, info.Queue)
	return 0
}

// StatsCommand prints InspectQueue and returns a process exit code.
func (c *JobsCLI) StatsCommand(ctx context.Context, opts Options) int {
	stats, err := c.InspectQueue(ctx)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "inspect queue: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		_ = json.NewEncoder(opts.Stdout).Encode(stats)
		return 0
	}
	fmt.Fprintf(opts.Stdout, "queue=%s pending=%d active=%d scheduled=%d retry=%d archived=%d\n",
		stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived)
	return 0
}
