package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseidon-capital/console/types"
)

func TestBidLists_Decode(t *testing.T) {
	t.Parallel()
	values := url.Values{
		"account":     {"  acct-1 "},
		"type":        {"typeA"},
		"bidQuantity": {"10"},
		"ask":         {""},
		"bidListDate": {"2024-05-06"},
	}

	rec, errs := BidLists.Decode(values)
	assert.Nil(t, errs)
	assert.Equal(t, "acct-1", rec.Account)
	require.NotNil(t, rec.BidQuantity)
	assert.Equal(t, 10.0, *rec.BidQuantity)
	assert.Nil(t, rec.Ask)
	require.NotNil(t, rec.BidListDate)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), *rec.BidListDate)
}

func TestDecode_ReportsUnparseableInputs(t *testing.T) {
	t.Parallel()
	_, errs := Trades.Decode(url.Values{
		"account":     {"a"},
		"type":        {"t"},
		"buyQuantity": {"ten"},
		"tradeDate":   {"06/05/2024"},
	})
	require.NotNil(t, errs)
	assert.Equal(t, "Buy quantity must be a number", errs["buyQuantity"])
	assert.Equal(t, "Trade date must be a date (YYYY-MM-DD)", errs["tradeDate"])

	_, errs = CurvePoints.Decode(url.Values{"curveId": {"1.5"}})
	assert.Equal(t, "Curve identifier must be a whole number", errs["curveId"])
}

func TestDecode_RejectsNonFiniteNumbers(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"Inf", "+Inf", "-inf", "NaN", "1e400"} {
		t.Run(raw, func(t *testing.T) {
			rec, errs := BidLists.Decode(url.Values{"account": {"a"}, "type": {"t"}, "bidQuantity": {raw}})
			require.NotNil(t, errs)
			assert.Equal(t, "Bid quantity must be a number", errs["bidQuantity"])
			assert.Nil(t, rec.BidQuantity)
		})
	}
}

func TestEncode_RoundTripsFormValues(t *testing.T) {
	t.Parallel()
	qty := 2.5
	order := 3
	date := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	values := BidLists.Encode(types.BidList{Account: "a", Type: "t", BidQuantity: &qty, BidListDate: &date})
	assert.Equal(t, "2.5", values.Get("bidQuantity"))
	assert.Equal(t, "2023-01-02", values.Get("bidListDate"))
	assert.Equal(t, "", values.Get("ask"))

	rec, errs := BidLists.Decode(values)
	assert.Nil(t, errs)
	assert.Equal(t, qty, *rec.BidQuantity)

	values = Ratings.Encode(types.Rating{MoodysRating: "Aaa", OrderNumber: &order})
	assert.Equal(t, "3", values.Get("orderNumber"))
}

func TestUsers_NeverEncodesPassword(t *testing.T) {
	t.Parallel()
	values := Users.Encode(UserForm{
		User:     types.User{Username: "alice", FullName: "Alice", Role: types.RoleAdmin, PasswordHash: "$2a$10$digest"},
		Password: "Password123!",
	})
	assert.Equal(t, "alice", values.Get("username"))
	assert.Equal(t, "ADMIN", values.Get("role"))
	_, ok := values["password"]
	assert.False(t, ok)
	for _, vs := range values {
		for _, v := range vs {
			assert.NotContains(t, v, "$2a$")
		}
	}
}

func TestUsers_DecodeKeepsPasswordVerbatim(t *testing.T) {
	t.Parallel()
	form, errs := Users.Decode(url.Values{
		"username": {" bob "},
		"fullname": {"Bob"},
		"role":     {"USER"},
		"password": {" Secret1! "},
	})
	assert.Nil(t, errs)
	assert.Equal(t, "bob", form.User.Username)
	assert.Equal(t, types.RoleUser, form.User.Role)
	assert.Equal(t, " Secret1! ", form.Password)
}

func TestColumns(t *testing.T) {
	t.Parallel()
	names := func(fields []Field) []string {
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, []string{"account", "type", "bidQuantity"}, names(BidLists.Columns()))
	assert.Equal(t, []string{"username", "fullname", "role"}, names(Users.Columns()))
}
