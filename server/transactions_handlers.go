package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Abitto-org/user-app/api"
	"github.com/Abitto-org/user-app/collection"
)

const contextKeyTxFilters ContextKey = "tx_filters"

func withTxFilters(ctx context.Context, filters api.TransactionFilters) context.Context {
	return context.WithValue(ctx, contextKeyTxFilters, filters)
}

// fetchTransactionsPage is the pager's fetch function. The server-side
// filters ride the context; the active meter header is attached by the
// dispatcher from the page segment already present on the request context.
func (s *Server) fetchTransactionsPage(ctx context.Context, page, limit int) ([]api.Transaction, api.Pagination, error) {
	filters, _ := ctx.Value(contextKeyTxFilters).(api.TransactionFilters)
	result, err := s.api.Transactions(ctx, page, limit, filters)
	if err != nil {
		return nil, api.Pagination{}, err
	}
	return result.Transactions, result.Pagination, nil
}

// transactionSearchFields are the display fields local search matches
// against: reference, description, the formatted type and the formatted
// amount, so "gas" and "1,500" both hit.
func transactionSearchFields(t api.Transaction) []string {
	return []string{t.Reference, t.Description, t.DisplayType(), t.DisplayAmount()}
}

// TransactionsHandler serves the transactions page. Pages accumulate per
// (meter, server filters) key; `more=true` requests the next page; `search`
// narrows the already-fetched items locally without touching the upstream.
func (s *Server) TransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := api.TransactionFilters{
			Status:    q.Get("status"),
			Type:      q.Get("type"),
			StartDate: q.Get("startDate"),
			EndDate:   q.Get("endDate"),
		}
		if v, err := strconv.ParseFloat(q.Get("minAmount"), 64); err == nil {
			filters.MinAmount = v
		}
		if v, err := strconv.ParseFloat(q.Get("maxAmount"), 64); err == nil {
			filters.MaxAmount = v
		}

		active, _ := ActiveMeter(r.Context())
		ctx := withTxFilters(r.Context(), filters)

		pager := s.transactions.Get("transactions|" + active.ID + "|" + filters.Key())
		if q.Get("more") == "true" || len(pager.Items()) == 0 {
			if _, err := pager.LoadMore(ctx); err != nil {
				s.respondError(w, err)
				return
			}
		}

		items := pager.Items()
		matched := collection.Filter(items, q.Get("search"), transactionSearchFields)

		s.respondData(w, http.StatusOK, map[string]any{
			"transactions": matched,
			"pagination":   pager.Pagination(),
			"hasMore":      pager.HasMore(),
			"fetched":      len(items),
		})
	}
}

func (s *Server) TransactionStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.api.TransactionStats(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, map[string]any{"stats": stats})
	}
}
