// Package finance holds the transaction subcommands.
package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
)

type AddCmd struct {
	Amount      string `arg:"" help:"Amount, e.g. 42.50."`
	Category    string `arg:"" help:"Category, e.g. Groceries."`
	Type        string `short:"t" help:"Transaction type (income|expense)." default:"expense"`
	Date        string `short:"d" help:"Transaction date (YYYY-MM-DD), defaults to today."`
	Description string `help:"Optional description."`
}

func (c *AddCmd) Validate() error {
	if _, err := decimal.NewFromString(c.Amount); err != nil {
		return fmt.Errorf("invalid amount %q", c.Amount)
	}
	if t := models.TransactionType(c.Type); t != models.TransactionIncome && t != models.TransactionExpense {
		return fmt.Errorf("type must be income or expense")
	}
	_, err := cli.ParseDate(c.Date)
	return err
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return err
	}
	date := c.Date
	if date == "" {
		date = cli.Today()
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Finance.Load(runCtx); err != nil {
		return err
	}
	tx := models.Transaction{
		ID:          storage.EnsureID(""),
		Amount:      amount,
		Category:    c.Category,
		Date:        date,
		Type:        models.TransactionType(c.Type),
		Description: c.Description,
		CreatedAt:   time.Now(),
	}
	if err := session.Finance.Create(runCtx, tx); err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}
	fmt.Println(cli.OK("recorded %s of %s in %s", c.Type, amount.StringFixed(2), c.Category))
	return nil
}

type ListCmd struct {
	ShowIDs bool `help:"Show transaction IDs." name:"show-ids"`
	Days    int  `short:"n" help:"Show only the trailing N days."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Finance.Load(runCtx); err != nil {
		return err
	}

	txs := session.Finance.Snapshot()
	if c.Days > 0 {
		txs = session.Finance.LastDays(c.Days, time.Now())
	}
	if len(txs) == 0 {
		fmt.Println("No transactions found")
		return nil
	}

	fmt.Println(cli.Header("Transactions:"))
	for _, tx := range txs {
		sign := "-"
		if tx.Type == models.TransactionIncome {
			sign = "+"
		}
		idStr := ""
		if c.ShowIDs {
			idStr = cli.Faint(fmt.Sprintf(" (ID: %s)", tx.ID))
		}
		desc := ""
		if tx.Description != "" {
			desc = " " + cli.Faint(tx.Description)
		}
		fmt.Printf("  %s %s%s  %s%s%s\n", tx.Date, sign, tx.Amount.StringFixed(2), tx.Category, idStr, desc)
	}
	return nil
}

type SummaryCmd struct{}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Finance.Load(runCtx); err != nil {
		return err
	}

	fmt.Println(cli.Header("Summary:"))
	fmt.Printf("  Income:   %s\n", session.Finance.Income().StringFixed(2))
	fmt.Printf("  Expenses: %s\n", session.Finance.Expenses().StringFixed(2))
	fmt.Printf("  Balance:  %s\n", session.Finance.Balance().StringFixed(2))

	totals := session.Finance.CategoryTotals()
	if len(totals) > 0 {
		fmt.Println(cli.Header("Expenses by category:"))
		for category, total := range totals {
			fmt.Printf("  %-16s %s\n", category, total.StringFixed(2))
		}
	}
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Transaction ID."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Finance.Load(runCtx); err != nil {
		return err
	}
	if err := session.Finance.Delete(runCtx, c.ID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	fmt.Println(cli.OK("deleted transaction %s", c.ID))
	return nil
}
