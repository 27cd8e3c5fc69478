package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/poseidon-capital/console/types"
)

// BidListRepository handles persistence for bid lists.
type BidListRepository struct {
	db *sql.DB
}

func NewBidListRepository(db *sql.DB) *BidListRepository {
	return &BidListRepository{db: db}
}

const bidListColumns = `
	bid_list_id, account, type, bid_quantity, ask_quantity, bid, ask, benchmark,
	bid_list_date, commentary, security, status, trader, book, creation_name,
	creation_date, revision_name, revision_date, deal_name, deal_type,
	source_list_id, side`

func scanBidList(row scanner) (types.BidList, error) {
	var b types.BidList
	err := row.Scan(
		&b.ID,
		&b.Account,
		&b.Type,
		&b.BidQuantity,
		&b.AskQuantity,
		&b.Bid,
		&b.Ask,
		&b.Benchmark,
		&b.BidListDate,
		&b.Commentary,
		&b.Security,
		&b.Status,
		&b.Trader,
		&b.Book,
		&b.CreationName,
		&b.CreationDate,
		&b.RevisionName,
		&b.RevisionDate,
		&b.DealName,
		&b.DealType,
		&b.SourceListID,
		&b.Side,
	)
	if err != nil {
		return types.BidList{}, mapError(err)
	}
	return b, nil
}

func (r *BidListRepository) List(ctx context.Context) ([]types.BidList, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bidListColumns+` FROM bid_list ORDER BY bid_list_id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBidList)
}

func (r *BidListRepository) Get(ctx context.Context, id int) (types.BidList, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bidListColumns+` FROM bid_list WHERE bid_list_id = $1`, id)
	return scanBidList(row)
}

func (r *BidListRepository) Create(ctx context.Context, b types.BidList) (types.BidList, error) {
	now := time.Now().UTC()
	const query = `
		INSERT INTO bid_list (
			account, type, bid_quantity, ask_quantity, bid, ask, benchmark,
			bid_list_date, commentary, security, status, trader, book, creation_name,
			creation_date, revision_name, revision_date, deal_name, deal_type,
			source_list_id, side
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING bid_list_id`
	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		b.Account,
		b.Type,
		b.BidQuantity,
		b.AskQuantity,
		b.Bid,
		b.Ask,
		b.Benchmark,
		b.BidListDate,
		b.Commentary,
		b.Security,
		b.Status,
		b.Trader,
		b.Book,
		b.CreationName,
		now,
		b.RevisionName,
		nil,
		b.DealName,
		b.DealType,
		b.SourceListID,
		b.Side,
	).Scan(&id)
	if err != nil {
		return types.BidList{}, mapError(err)
	}
	return r.Get(ctx, id)
}

// Update overwrites every editable column of bid list id and stamps the
// revision date. The creation date is left untouched.
func (r *BidListRepository) Update(ctx context.Context, id int, b types.BidList) (types.BidList, error) {
	const query = `
		UPDATE bid_list
		SET account = $1,
			type = $2,
			bid_quantity = $3,
			ask_quantity = $4,
			bid = $5,
			ask = $6,
			benchmark = $7,
			bid_list_date = $8,
			commentary = $9,
			security = $10,
			status = $11,
			trader = $12,
			book = $13,
			creation_name = $14,
			revision_name = $15,
			revision_date = $16,
			deal_name = $17,
			deal_type = $18,
			source_list_id = $19,
			side = $20
		WHERE bid_list_id = $21`
	err := rowsAffected(r.db.ExecContext(
		ctx,
		query,
		b.Account,
		b.Type,
		b.BidQuantity,
		b.AskQuantity,
		b.Bid,
		b.Ask,
		b.Benchmark,
		b.BidListDate,
		b.Commentary,
		b.Security,
		b.Status,
		b.Trader,
		b.Book,
		b.CreationName,
		b.RevisionName,
		time.Now().UTC(),
		b.DealName,
		b.DealType,
		b.SourceListID,
		b.Side,
		id,
	))
	if err != nil {
		return types.BidList{}, err
	}
	return r.Get(ctx, id)
}

func (r *BidListRepository) Delete(ctx context.Context, id int) error {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM bid_list WHERE bid_list_id = $1`, id))
}
