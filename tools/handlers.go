package tools

import (
	"context"
	"fmt"

	"github.com/jonwraymond/budgetops/budget"
)

// Handlers bundles the budgeting API tools. All read tools are cacheable;
// create_transaction is a mutation and invalidates the budget's cached
// listings on success.
type Handlers struct {
	client *budget.Client
}

// NewHandlers creates the handler set for a budgeting API client.
func NewHandlers(client *budget.Client) (*Handlers, error) {
	if client == nil {
		return nil, fmt.Errorf("tools: nil budget client")
	}
	return &Handlers{client: client}, nil
}

// RegisterAll registers every budgeting tool on the executor.
func (h *Handlers) RegisterAll(e *Executor) error {
	for _, t := range []Tool{
		h.GetUser(),
		h.ListBudgets(),
		h.ListAccounts(),
		h.ListCategories(),
		h.ListTransactions(),
		h.CreateTransaction(),
	} {
		if err := e.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// GetUser returns the tool that identifies the authenticated API user.
func (h *Handlers) GetUser() Tool {
	return Tool{
		Name:        "get_user",
		Description: "Return the authenticated budgeting API user.",
		Category:    "user",
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			return h.client.User(ctx)
		},
	}
}

// ListBudgets returns the tool that lists all budgets.
func (h *Handlers) ListBudgets() Tool {
	return Tool{
		Name:        "list_budgets",
		Description: "List all budgets available to the authenticated user.",
		Category:    "budgets",
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			return h.client.Budgets(ctx)
		},
	}
}

// ListAccounts returns the tool that lists a budget's accounts.
func (h *Handlers) ListAccounts() Tool {
	return Tool{
		Name:        "list_accounts",
		Description: "List the accounts in a budget. Requires budget_id.",
		Category:    "accounts",
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			budgetID, err := stringField(input, "budget_id")
			if err != nil {
				return nil, err
			}
			return h.client.Accounts(ctx, budgetID)
		},
	}
}

// ListCategories returns the tool that lists a budget's category groups.
func (h *Handlers) ListCategories() Tool {
	return Tool{
		Name:        "list_categories",
		Description: "List the category groups in a budget. Requires budget_id.",
		Category:    "categories",
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			budgetID, err := stringField(input, "budget_id")
			if err != nil {
				return nil, err
			}
			return h.client.Categories(ctx, budgetID)
		},
	}
}

// ListTransactions returns the tool that lists a budget's transactions,
// optionally filtered by account and start date.
func (h *Handlers) ListTransactions() Tool {
	return Tool{
		Name:        "list_transactions",
		Description: "List transactions in a budget. Requires budget_id; accepts account_id and since_date filters.",
		Category:    "transactions",
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			budgetID, err := stringField(input, "budget_id")
			if err != nil {
				return nil, err
			}
			accountID, err := optionalString(input, "account_id")
			if err != nil {
				return nil, err
			}
			sinceDate, err := optionalString(input, "since_date")
			if err != nil {
				return nil, err
			}
			return h.client.Transactions(ctx, budgetID, budget.TransactionsQuery{
				SinceDate: sinceDate,
				AccountID: accountID,
			})
		},
	}
}

// CreateTransaction returns the tool that records a new transaction.
// The amount is given in milliunits.
func (h *Handlers) CreateTransaction() Tool {
	return Tool{
		Name:          "create_transaction",
		Description:   "Create a transaction. Requires budget_id, account_id, date, and amount (milliunits).",
		Tags:          []string{"write"},
		RequiredScope: "budget:write",
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			budgetID, err := stringField(input, "budget_id")
			if err != nil {
				return nil, err
			}
			accountID, err := stringField(input, "account_id")
			if err != nil {
				return nil, err
			}
			date, err := stringField(input, "date")
			if err != nil {
				return nil, err
			}
			amount, err := numberField(input, "amount")
			if err != nil {
				return nil, err
			}
			payeeName, err := optionalString(input, "payee_name")
			if err != nil {
				return nil, err
			}
			categoryID, err := optionalString(input, "category_id")
			if err != nil {
				return nil, err
			}
			memo, err := optionalString(input, "memo")
			if err != nil {
				return nil, err
			}
			return h.client.CreateTransaction(ctx, budgetID, budget.NewTransaction{
				AccountID:  accountID,
				Date:       date,
				Amount:     budget.Milliunits(amount),
				PayeeName:  payeeName,
				CategoryID: categoryID,
				Memo:       memo,
			})
		},
	}
}
