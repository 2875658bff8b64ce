// Command stayctl is a thin operator CLI for the stayledger API: local quotes,
// availability checks, typeahead lookups and bearer tokens for scripting.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/config"
	"github.com/sangkips/stayledger-api/pkg/apiclient"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/lookup"
	"github.com/sangkips/stayledger-api/pkg/pricing"
	"github.com/sangkips/stayledger-api/pkg/utils"
	flag "github.com/spf13/pflag"
)

const usage = `usage: stayctl <command> [flags]

commands:
  quote         derive chargeable days and both ledgers
  availability  check room availability for a property
  search        typeahead lookup (reads queries from stdin when none is given)
  token         mint a bearer token with the configured JWT secret
`

// exitBlocked is returned by availability when a requested room type is taken.
const exitBlocked = 3

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.LoadClient()
	cmd, args := os.Args[1], os.Args[2:]

	var code int
	var err error
	switch cmd {
	case "quote":
		err = runQuote(ctx, cfg, args)
	case "availability":
		code, err = runAvailability(ctx, cfg, args)
	case "search":
		err = runSearch(ctx, cfg, args)
	case "token":
		err = runToken(cfg, args)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}
	os.Exit(code)
}

func runQuote(ctx context.Context, cfg *config.ClientConfig, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	var q pricing.StayQuote
	fs.StringVar(&q.Stay.CheckInDate, "check-in", "", "check-in date (YYYY-MM-DD)")
	fs.StringVar(&q.Stay.CheckInTime, "check-in-time", "", "check-in time (HH:MM)")
	fs.StringVar(&q.Stay.CheckOutDate, "check-out", "", "check-out date (YYYY-MM-DD)")
	fs.StringVar(&q.Stay.CheckOutTime, "check-out-time", "", "check-out time (HH:MM)")
	fs.Float64Var(&q.Company.BaseRate, "company-rate", 0, "company base rate per day")
	fs.Float64Var(&q.Company.TaxPercent, "company-tax", 0, "company tax percent")
	fs.Float64Var(&q.Host.BaseRate, "host-rate", 0, "host base rate per day")
	fs.Float64Var(&q.Host.TaxPercent, "host-tax", 0, "host tax percent")
	remote := fs.Bool("remote", false, "ask the API instead of computing locally")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *remote {
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		out, err := client.Quote(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(out)
	}

	q.Recompute()
	if q.ChargeableDays == nil {
		return errors.New("check-in and check-out dates are required and check-out must be after check-in")
	}
	return printJSON(q)
}

func runAvailability(ctx context.Context, cfg *config.ClientConfig, args []string) (int, error) {
	fs := flag.NewFlagSet("availability", flag.ContinueOnError)
	var q pricing.AvailabilityQuery
	fs.StringVar(&q.PropertyID, "property", "", "property id")
	fs.StringVar(&q.CheckInDate, "check-in", "", "check-in date (YYYY-MM-DD)")
	fs.StringVar(&q.CheckOutDate, "check-out", "", "check-out date (YYYY-MM-DD)")
	fs.StringSliceVar(&q.RoomTypes, "room-type", nil, "room type, repeatable or comma separated")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}

	client, err := newClient(cfg)
	if err != nil {
		return 0, err
	}
	result, err := client.CheckRoomAvailability(ctx, q)
	if err != nil {
		return 0, err
	}
	if err := printJSON(result); err != nil {
		return 0, err
	}
	if result.Blocked {
		return exitBlocked, nil
	}
	return 0, nil
}

func runSearch(ctx context.Context, cfg *config.ClientConfig, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	entity := fs.StringP("entity", "e", apiclient.EntityProperties, "hosts, properties, clients or pincodes")
	delay := fs.Duration("delay", cfg.LookupDebounce, "quiet period before a query is sent")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	results := make(chan lookup.Result[[]lookup.Item], 1)
	debouncer := lookup.NewDebouncer(ctx, *delay, func(ctx context.Context, q string) ([]lookup.Item, error) {
		return client.Search(ctx, *entity, q)
	}, func(r lookup.Result[[]lookup.Item]) {
		// keep only the newest result if the reader is behind
		select {
		case <-results:
		default:
		}
		results <- r
	})
	defer debouncer.Close()

	if fs.NArg() > 0 {
		debouncer.Trigger(strings.Join(fs.Args(), " "))
		return awaitResult(ctx, results, *delay+cfg.Timeout)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	var printed uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return awaitPending(ctx, results, debouncer.Latest, printed, *delay+cfg.Timeout)
			}
			debouncer.Trigger(line)
		case r := <-results:
			if err := printResult(r); err != nil {
				return err
			}
			printed = r.Seq
		}
	}
}

// awaitPending waits for the result of the newest trigger unless it was
// already printed.
func awaitPending(ctx context.Context, results <-chan lookup.Result[[]lookup.Item], latest func() uint64, printed uint64, wait time.Duration) error {
	select {
	case r := <-results:
		if err := printResult(r); err != nil {
			return err
		}
		printed = r.Seq
	default:
	}
	if printed >= latest() {
		return nil
	}
	return awaitResult(ctx, results, wait)
}

func awaitResult(ctx context.Context, results <-chan lookup.Result[[]lookup.Item], wait time.Duration) error {
	select {
	case r := <-results:
		return printResult(r)
	case <-time.After(wait):
		return errors.New("lookup timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printResult(r lookup.Result[[]lookup.Item]) error {
	if r.Err != nil {
		return r.Err
	}
	fmt.Fprintf(os.Stdout, "# %q\n", r.Query)
	for _, item := range r.Value {
		if item.Detail != "" {
			fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", item.ID, item.Label, item.Detail)
		} else {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", item.ID, item.Label)
		}
	}
	return nil
}

func runToken(cfg *config.ClientConfig, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	user := fs.String("user", "", "user id (random when empty)")
	email := fs.String("email", "ops@localhost", "email claim")
	permissions := fs.StringSlice("permission", []string{"*"}, "permission claim, repeatable")
	expiry := fs.Duration("expiry", cfg.JWTExpiry, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := uuid.New()
	if *user != "" {
		id, err := uuid.Parse(*user)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		userID = id
	}

	token, err := utils.NewJWTManager(cfg.JWTSecret, *expiry).GenerateAccessToken(userID, *email, *permissions)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, token)
	return nil
}

func newClient(cfg *config.ClientConfig) (*apiclient.Client, error) {
	return apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
	})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		fmt.Fprintf(os.Stderr, "error: %s\n", appErr.Message)
		for _, fe := range appErr.Errors {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
