package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/sysupd/internal/catalog"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/helpers"
	"github.com/quantmind-br/sysupd/internal/syspkg"
	"github.com/rs/zerolog"
)

// Engine runs the distribution's check command and classifies its output
type Engine struct {
	catalog *catalog.Catalog
	runner  helpers.CommandRunner
	timeout time.Duration
	log     *zerolog.Logger
	now     func() time.Time
}

// NewEngine creates an Engine. A zero timeout waits for the command indefinitely.
func NewEngine(cat *catalog.Catalog, runner helpers.CommandRunner, timeout time.Duration, log *zerolog.Logger) *Engine {
	return &Engine{
		catalog: cat,
		runner:  runner,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// Check blocks until the check command exits. Unknown distributions fail
// without spawning anything.
func (e *Engine) Check(ctx context.Context, d core.Distribution) core.CheckResult {
	result := e.check(ctx, d)
	result.Distro = d
	result.CheckedAt = e.now()

	e.log.Debug().
		Str("distro", string(d)).
		Str("status", result.Status.String()).
		Int("count", result.Count).
		Msg("update check finished")

	return result
}

func (e *Engine) check(ctx context.Context, d core.Distribution) core.CheckResult {
	if !d.Supported() {
		return core.CheckFailed(core.ErrUnsupportedDistribution)
	}

	provider, err := e.catalog.Provider(d)
	if err != nil {
		return core.CheckFailed(err)
	}
	cmd := provider.CheckCommand()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.log.Debug().Str("command", cmd.String()).Msg("running update check")
	stdout, stderr, err := e.runner.RunCommandWithOutput(ctx, cmd.Name, cmd.Args...)

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return core.CheckFailed(fmt.Errorf("%w after %s", core.ErrCheckTimedOut, e.timeout))
		}
		return core.CheckFailed(fmt.Errorf("%w: %v", core.ErrCheckCommandFailed, ctxErr))
	}

	// Exit codes carry no meaning here: checkupdates exits 2 when the system
	// is current. Only a failure to run the binary at all is fatal.
	if err != nil && !helpers.IsExitError(err) {
		return core.CheckFailed(fmt.Errorf("%w: %v", core.ErrCheckCommandFailed, err))
	}

	return Classify(provider, stdout, stderr)
}

// Classify maps captured output to a result:
//  1. provider-specific benign warnings are removed from stderr
//  2. remaining stderr that is not blank is a failure
//  3. empty output, or a listing header with nothing after it, means no updates
//  4. anything else is an update listing; the count is the number of newlines,
//     minus the header line for providers that print one
func Classify(p syspkg.Provider, stdout, stderr string) core.CheckResult {
	stderr = p.FilterStderr(stderr)
	if strings.TrimSpace(stderr) != "" {
		return core.CheckFailed(fmt.Errorf("%w: %s", core.ErrCheckCommandFailed, strings.TrimSpace(stderr)))
	}

	if strings.TrimSpace(stdout) == "" {
		return core.NoUpdates()
	}
	if p.HasListingHeader() && headerOnly(stdout) {
		return core.NoUpdates()
	}

	count := strings.Count(stdout, "\n")
	if p.HasListingHeader() {
		count--
	}

	return core.UpdatesAvailable(count, stdout)
}

func headerOnly(stdout string) bool {
	if !strings.HasPrefix(stdout, core.AptListingHeader) {
		return false
	}
	_, rest, _ := strings.Cut(stdout, "\n")
	return strings.TrimSpace(rest) == ""
}
