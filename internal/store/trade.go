package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/poseidon-capital/console/types"
)

// TradeRepository handles persistence for trades.
type TradeRepository struct {
	db *sql.DB
}

func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

const tradeColumns = `
	trade_id, account, type, buy_quantity, sell_quantity, buy_price, sell_price,
	benchmark, trade_date, security, status, trader, book, creation_name,
	creation_date, revision_name, revision_date, deal_name, deal_type,
	source_list_id, side`

func scanTrade(row scanner) (types.Trade, error) {
	var t types.Trade
	err := row.Scan(
		&t.ID,
		&t.Account,
		&t.Type,
		&t.BuyQuantity,
		&t.SellQuantity,
		&t.BuyPrice,
		&t.SellPrice,
		&t.Benchmark,
		&t.TradeDate,
		&t.Security,
		&t.Status,
		&t.Trader,
		&t.Book,
		&t.CreationName,
		&t.CreationDate,
		&t.RevisionName,
		&t.RevisionDate,
		&t.DealName,
		&t.DealType,
		&t.SourceListID,
		&t.Side,
	)
	if err != nil {
		return types.Trade{}, mapError(err)
	}
	return t, nil
}

func (r *TradeRepository) List(ctx context.Context) ([]types.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tradeColumns+` FROM trade ORDER BY trade_id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTrade)
}

func (r *TradeRepository) Get(ctx context.Context, id int) (types.Trade, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trade WHERE trade_id = $1`, id)
	return scanTrade(row)
}

func (r *TradeRepository) Create(ctx context.Context, t types.Trade) (types.Trade, error) {
	const query = `
		INSERT INTO trade (
			account, type, buy_quantity, sell_quantity, buy_price, sell_price,
			benchmark, trade_date, security, status, trader, book, creation_name,
			creation_date, revision_name, deal_name, deal_type, source_list_id, side
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING trade_id`
	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		t.Account,
		t.Type,
		t.BuyQuantity,
		t.SellQuantity,
		t.BuyPrice,
		t.SellPrice,
		t.Benchmark,
		t.TradeDate,
		t.Security,
		t.Status,
		t.Trader,
		t.Book,
		t.CreationName,
		time.Now().UTC(),
		t.RevisionName,
		t.DealName,
		t.DealType,
		t.SourceListID,
		t.Side,
	).Scan(&id)
	if err != nil {
		return types.Trade{}, mapError(err)
	}
	return r.Get(ctx, id)
}

// Update overwrites every editable column of trade id and stamps the
// revision date.
func (r *TradeRepository) Update(ctx context.Context, id int, t types.Trade) (types.Trade, error) {
	const query = `
		UPDATE trade
		SET account = $1,
			type = $2,
			buy_quantity = $3,
			sell_quantity = $4,
			buy_price = $5,
			sell_price = $6,
			benchmark = $7,
			trade_date = $8,
			security = $9,
			status = $10,
			trader = $11,
			book = $12,
			creation_name = $13,
			revision_name = $14,
			revision_date = $15,
			deal_name = $16,
			deal_type = $17,
			source_list_id = $18,
			side = $19
		WHERE trade_id = $20`
	err := rowsAffected(r.db.ExecContext(
		ctx,
		query,
		t.Account,
		t.Type,
		t.BuyQuantity,
		t.SellQuantity,
		t.BuyPrice,
		t.SellPrice,
		t.Benchmark,
		t.TradeDate,
		t.Security,
		t.Status,
		t.Trader,
		t.Book,
		t.CreationName,
		t.RevisionName,
		time.Now().UTC(),
		t.DealName,
		t.DealType,
		t.SourceListID,
		t.Side,
		id,
	))
	if err != nil {
		return types.Trade{}, err
	}
	return r.Get(ctx, id)
}

func (r *TradeRepository) Delete(ctx context.Context, id int) error {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM trade WHERE trade_id = $1`, id))
}
