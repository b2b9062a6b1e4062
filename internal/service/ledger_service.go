package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/internal/ledger"
	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage"
	"github.com/mmynk/tripwiser/internal/watch"
	"github.com/mmynk/tripwiser/pkg/api"
	"github.com/mmynk/tripwiser/pkg/api/apiconnect"
)

// LedgerService implements the LedgerService RPC interface.
type LedgerService struct {
	store      storage.Store
	access     *Access
	broker     *watch.Broker
	currencies []string
	logger     *slog.Logger
}

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService. Every balance includes a bucket
// for each of currencies plus the trip's base currency.
func NewLedgerService(store storage.Store, access *Access, broker *watch.Broker, currencies []string, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:      store,
		access:     access,
		broker:     broker,
		currencies: currencies,
		logger:     logger,
	}
}

// CreateTransaction records an expense or a settlement.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	s.logger.Info("CreateTransaction request received", "trip_id", req.Msg.TripID)

	scope, err := s.access.authorize(ctx, policy.Transactions, policy.Create, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	txn := &models.Transaction{TripID: scope.Trip.ID, CreatedBy: scope.Caller.UserID}
	if err := applyTransactionInput(txn, req.Msg.Transaction); err != nil {
		return nil, toConnectError(err)
	}

	entry := newLog(txn.TripID, models.LogExpense, models.ActionCreate, txn.Title, describe(txn), scope.Caller.UserID)
	if err := s.store.CreateTransaction(ctx, txn, entry); err != nil {
		s.logger.Error("CreateTransaction failed", "trip_id", txn.TripID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(txn.TripID, watch.EntityTransaction, models.ActionCreate, txn.ID))

	s.logger.Info("Transaction created",
		"trip_id", txn.TripID,
		"transaction_id", txn.ID,
		"kind", txn.Kind,
		"participants_count", len(txn.SplitAmong),
	)
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// UpdateTransaction replaces a transaction's content.
func (s *LedgerService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	s.logger.Info("UpdateTransaction request received", "trip_id", req.Msg.TripID, "transaction_id", req.Msg.TransactionID)

	scope, err := s.access.authorize(ctx, policy.Transactions, policy.Update, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	txn, err := s.store.GetTransaction(ctx, scope.Trip.ID, req.Msg.TransactionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := applyTransactionInput(txn, req.Msg.Transaction); err != nil {
		return nil, toConnectError(err)
	}

	entry := newLog(txn.TripID, models.LogExpense, models.ActionUpdate, txn.Title, describe(txn), scope.Caller.UserID)
	if err := s.store.UpdateTransaction(ctx, txn, entry); err != nil {
		s.logger.Error("UpdateTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(txn.TripID, watch.EntityTransaction, models.ActionUpdate, txn.ID))

	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// DeleteTransaction removes a transaction, logging a snapshot of it first.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	s.logger.Info("DeleteTransaction request received", "trip_id", req.Msg.TripID, "transaction_id", req.Msg.TransactionID)

	scope, err := s.access.authorize(ctx, policy.Transactions, policy.Delete, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	txn, err := s.store.GetTransaction(ctx, scope.Trip.ID, req.Msg.TransactionID)
	if err != nil {
		return nil, toConnectError(err)
	}

	entry := newLog(txn.TripID, models.LogExpense, models.ActionDelete, txn.Title, snapshot(toAPITransaction(txn)), scope.Caller.UserID)
	if err := s.store.DeleteTransaction(ctx, txn.TripID, txn.ID, entry); err != nil {
		s.logger.Error("DeleteTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(txn.TripID, watch.EntityTransaction, models.ActionDelete, txn.ID))

	s.logger.Info("Transaction deleted", "trip_id", txn.TripID, "transaction_id", txn.ID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// ListTransactions returns the trip's transactions, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	scope, err := s.access.authorize(ctx, policy.Transactions, policy.List, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	txns, err := s.store.ListTransactions(ctx, scope.Trip.ID)
	if err != nil {
		s.logger.Error("ListTransactions failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = toAPITransaction(t)
	}
	s.logger.Info("ListTransactions successful", "trip_id", scope.Trip.ID, "count", len(out))
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// GetBalances computes each member's net position per currency, with
// suggested transfers that would settle them.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	s.logger.Info("GetBalances request received", "trip_id", req.Msg.TripID)

	snap, err := s.balances(ctx, req.Msg.TripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:    snap.Balances,
		Currencies:  snap.Currencies,
		Suggestions: snap.Suggestions,
	}), nil
}

// WatchBalances streams balances, once on subscribe and again, recomputed
// from scratch, after every transaction or member change.
func (s *LedgerService) WatchBalances(ctx context.Context, req *connect.Request[api.WatchBalancesRequest], stream *connect.ServerStream[api.WatchBalancesResponse]) error {
	s.logger.Info("WatchBalances stream opened", "trip_id", req.Msg.TripID)

	send := func() error {
		snap, err := s.balances(ctx, req.Msg.TripID)
		if err != nil {
			return toConnectError(err)
		}
		return stream.Send(snap)
	}

	err := streamSnapshots(ctx, s.broker, req.Msg.TripID,
		[]string{watch.EntityTransaction, watch.EntityMember, watch.EntityTrip}, send)
	s.logger.Info("WatchBalances stream closed", "trip_id", req.Msg.TripID, "error", err)
	return err
}

// balances authorizes the caller and folds the trip's ledger.
func (s *LedgerService) balances(ctx context.Context, tripID string) (*api.WatchBalancesResponse, error) {
	scope, err := s.access.authorize(ctx, policy.Transactions, policy.Read, tripID, "")
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, scope.Trip.ID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactions(ctx, scope.Trip.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(members))
	nicknames := make(map[string]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
		nicknames[m.UserID] = m.Nickname
	}
	entries := make([]ledger.Entry, len(txns))
	for i, t := range txns {
		entries[i] = ledger.Entry{
			Kind:       ledger.Kind(t.Kind),
			Amount:     t.Amount,
			Currency:   t.Currency,
			PaidBy:     t.PaidBy,
			SplitAmong: t.SplitAmong,
		}
	}

	currencies := s.currencies
	if !slices.Contains(currencies, scope.Trip.BaseCurrency) {
		currencies = append(slices.Clone(currencies), scope.Trip.BaseCurrency)
	}
	b := ledger.Compute(entries, ids, currencies)

	// Members in join order, then ids only seen in transactions.
	order := ids
	var extra []string
	for id := range b {
		if _, ok := nicknames[id]; !ok {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	order = append(order, extra...)

	out := &api.WatchBalancesResponse{
		Balances:    make([]*api.MemberBalance, 0, len(order)),
		Currencies:  b.Currencies(),
		Suggestions: []*api.Transfer{},
	}
	for _, id := range order {
		mb := &api.MemberBalance{
			UserID:   id,
			Nickname: nicknames[id],
			Amounts:  b[id],
			Display:  make(map[string]string, len(b[id])),
		}
		for currency, amount := range b[id] {
			mb.Display[currency] = ledger.Display(amount, currency)
		}
		out.Balances = append(out.Balances, mb)
	}
	for _, t := range ledger.SuggestSettlements(b) {
		out.Suggestions = append(out.Suggestions, &api.Transfer{
			From:     t.From,
			To:       t.To,
			Amount:   t.Amount,
			Currency: t.Currency,
			Display:  ledger.Display(t.Amount, t.Currency),
		})
	}

	s.logger.Debug("Balances computed",
		"trip_id", scope.Trip.ID,
		"transactions_count", len(txns),
		"members_count", len(order),
	)
	return out, nil
}

// applyTransactionInput validates in and copies it onto txn.
func applyTransactionInput(txn *models.Transaction, in *api.TransactionInput) error {
	if in == nil {
		return invalidf("transaction is required")
	}

	kind := models.TransactionKind(in.Kind)
	if !kind.Valid() {
		return invalidf("unknown transaction kind %q", in.Kind)
	}
	if err := validateAmount(in.Amount); err != nil {
		return err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return err
	}
	paidBy, err := required("paid by", in.PaidBy)
	if err != nil {
		return err
	}
	split := uniqueIDs(in.SplitAmong)

	title := strings.TrimSpace(in.Title)
	switch kind {
	case models.KindExpense:
		if title == "" {
			return invalidf("title is required")
		}
		if len(split) == 0 {
			return invalidf("an expense must be split among at least one member")
		}
	case models.KindSettlement:
		if len(split) != 1 {
			return invalidf("a settlement has exactly one recipient, got %d", len(split))
		}
		if split[0] == paidBy {
			return invalidf("a settlement cannot be paid to oneself")
		}
		if title == "" {
			title = "Settlement"
		}
	}

	txn.Kind = kind
	txn.Title = title
	txn.Amount = in.Amount
	txn.Currency = currency
	txn.PaidBy = paidBy
	txn.SplitAmong = split
	return nil
}

// describe summarizes a transaction for the activity log.
func describe(t *models.Transaction) string {
	amount := ledger.Display(t.Amount, t.Currency)
	if t.Kind == models.KindSettlement {
		return fmt.Sprintf("%s %s from %s to %s", t.Currency, amount, t.PaidBy, t.Recipient())
	}
	return fmt.Sprintf("%s %s paid by %s, split %d ways", t.Currency, amount, t.PaidBy, len(t.SplitAmong))
}
