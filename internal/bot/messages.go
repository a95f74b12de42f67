package bot

import (
	"fmt"
	"strings"

	"budgetbot/internal/core"
)

const (
	usageSetBudget = "Usage: /setbudget <amount>"
	usageAdd       = "Usage: /add <amount>, <name>, <category>\nExample: /add 12.50, Lunch at, Food"
	usageView      = "Usage: /view <YYYY-MM>"
	usageExport    = "Usage: /export <YYYY-MM>"

	msgNoBudget    = "⚠️ No budget set for this month."
	msgRateLimited = "⏳ Too many commands, please slow down."
	msgFailure     = "⚠️ Something went wrong, please try again later."
)

// commandInfo describes one command. Commands without a description are
// listed in summaries but left out of /help.
type commandInfo struct {
	syntax      string
	description string
}

var commandList = []commandInfo{
	{"/setbudget <amount>", "Set budget for the month"},
	{"/add <amount>, <name>, <category>", "Add an expense with the given format"},
	{"/balance", "View balance for the month"},
	{"/view <YYYY-MM>", "View expenses for the specified month"},
	{"/export <YYYY-MM>", "Export expenses for the specified month as a CSV file"},
	{"/help", ""},
}

func commandSummary() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, c := range commandList {
		sb.WriteString(c.syntax + "\n")
	}
	return sb.String()
}

func welcomeMessage(name string, created bool) string {
	if created {
		return fmt.Sprintf("👋 Welcome, %s! Your account has been created.\n\n", name) + commandSummary()
	}
	return fmt.Sprintf("👋 Welcome back, %s!\n\n", name) + commandSummary()
}

func helpMessage() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n\n")
	for _, c := range commandList {
		if c.description == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s - %s\n", c.syntax, c.description)
	}
	return sb.String()
}

func unknownMessage() string {
	var sb strings.Builder
	sb.WriteString("⚠️ Command not found ⚠️ \n\nAvailable Commands:\n")
	for _, c := range commandList {
		sb.WriteString(c.syntax + "\n")
	}
	return sb.String()
}

func budgetSetMessage(b core.Budget) string {
	return fmt.Sprintf("✅ Budget for %s set to %s", b.Month, core.FormatAmount(b.Amount))
}

func expenseAddedMessage(e core.Expense) string {
	return fmt.Sprintf("Successfully added expense! \nAmount: %s\nName: %s\nCategory: %s",
		core.FormatAmount(e.Amount), e.Name, e.Category)
}

func balanceMessage(b core.Balance) string {
	return "Balance Summary for the month:\n\n" +
		fmt.Sprintf("💰 Budget: %s\n", core.FormatAmount(b.Budget)) +
		fmt.Sprintf("📉 Spent: %s\n", core.FormatAmount(b.Spent)) +
		fmt.Sprintf("✅ Balance: %s", core.FormatAmount(b.Remaining()))
}

func noExpensesMessage(month core.Month) string {
	return fmt.Sprintf("No expenses found for %s.", month)
}

func nothingToExportMessage(month core.Month) string {
	return fmt.Sprintf("No expenses to export for %s.", month)
}

// listingMessage renders the /view reply. Missing names and categories get
// placeholders.
func listingMessage(month core.Month, expenses []core.Expense) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📒 Expenses for %s:\n\n", month)
	for _, e := range expenses {
		name := e.Name
		if name == "" {
			name = "N/A"
		}
		category := e.Category
		if category == "" {
			category = "Uncategorized"
		}
		fmt.Fprintf(&sb, "- %s: %s [%s] (%s)\n",
			e.Timestamp.UTC().Format("2006-01-02"), core.FormatAmount(e.Amount), name, category)
	}
	fmt.Fprintf(&sb, "\nTotal: %s", core.FormatAmount(core.SumAmounts(expenses)))
	return sb.String()
}
