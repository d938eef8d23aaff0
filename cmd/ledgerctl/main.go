// Command ledgerctl reads income reports and works gift cards from the shell,
// over the same services the HTTP server uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/config"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/internal/services"
	"github.com/staffrevenue/revenue-manager/pkg/validator"
)

const usage = `usage: ledgerctl [-database-path PATH] <command> [flags]

commands:
  income        -from YYYY-MM-DD -to YYYY-MM-DD   daily income summary with totals
  giftcards     [-status S] [-search TEXT]         list gift cards
  giftcard-use  -id N -amount CENTS [-note TEXT]   redeem value from a gift card
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	income    *services.IncomeService
	giftCards *services.GiftCardService
	out       io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	var dbCfg config.DatabaseConfig
	if err := cleanenv.ReadEnv(&dbCfg); err != nil {
		fmt.Fprintf(stderr, "failed to read environment: %v\n", err)
		return 1
	}

	global := flag.NewFlagSet("ledgerctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	global.StringVar(&dbCfg.Path, "database-path", dbCfg.Path, "SQLite database file (overrides DATABASE_PATH)")
	verbose := global.Bool("v", false, "log service activity to stderr")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.InfoLevel)
	}

	store, err := database.Open(dbCfg)
	if err != nil {
		fmt.Fprintf(stderr, "failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	giftCards, err := services.NewGiftCardService(store, nil, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	a := &app{
		income:    services.NewIncomeService(store, logger),
		giftCards: giftCards,
		out:       stdout,
	}

	ctx := context.Background()
	cmd, cmdArgs := global.Arg(0), global.Args()[1:]

	switch cmd {
	case "income":
		err = a.runIncome(ctx, cmdArgs, stderr)
	case "giftcards":
		err = a.runGiftCards(ctx, cmdArgs, stderr)
	case "giftcard-use":
		err = a.runGiftCardUse(ctx, cmdArgs, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		if kind := services.KindOf(err); kind != services.KindInternal {
			return 3
		}
		return 1
	}
	return 0
}

func (a *app) runIncome(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("income", flag.ContinueOnError)
	fs.SetOutput(stderr)
	from := fs.String("from", validator.Today(), "first day (YYYY-MM-DD)")
	to := fs.String("to", validator.Today(), "last day (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	days, err := a.income.Summary(ctx, *from, *to)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "date\tgross\twages\trent\texpenses\tgst\tnet\t")
	for _, d := range days {
		writeDay(w, d.Date, d)
	}
	if len(days) > 0 {
		writeDay(w, "total", services.Totals(days))
	}
	return w.Flush()
}

func writeDay(w io.Writer, label string, d models.DaySummary) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		label,
		formatCents(d.GrossCents),
		formatCents(d.WagesCents),
		formatCents(d.RentAllocatedCents),
		formatCents(d.ExpensesCents),
		formatCents(d.GSTCents),
		formatCents(d.NetCents),
	)
}

func (a *app) runGiftCards(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("giftcards", flag.ContinueOnError)
	fs.SetOutput(stderr)
	status := fs.String("status", "", "active, used, expired or cancelled")
	search := fs.String("search", "", "card number, customer name or phone")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cards, err := a.giftCards.List(ctx, models.GiftCardFilter{Status: *status, Search: *search})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tcard\tcustomer\tremaining\tinitial\tstatus")
	for _, c := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.CardNumber, c.CustomerName,
			formatCents(c.RemainingAmountCents), formatCents(c.InitialAmountCents), c.Status)
	}
	return w.Flush()
}

func (a *app) runGiftCardUse(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("giftcard-use", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.Int64("id", 0, "gift card id")
	amount := fs.Int64("amount", 0, "amount to redeem, in cents")
	note := fs.String("note", "", "optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := models.UseGiftCardInput{AmountCents: *amount}
	if *note != "" {
		input.Notes = note
	}

	result, err := a.giftCards.Use(ctx, *id, input)
	if err != nil {
		return err
	}

	if result.Deleted {
		fmt.Fprintf(a.out, "gift card %d fully redeemed and removed\n", *id)
		return nil
	}
	fmt.Fprintf(a.out, "gift card %d: %s remaining\n", *id, formatCents(result.RemainingAmount))
	return nil
}

// formatCents renders an integer cent amount as dollars, e.g. -27500 -> -275.00
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
