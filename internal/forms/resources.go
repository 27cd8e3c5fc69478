package forms

import (
	"github.com/poseidon-capital/console/types"
)

var BidLists = Resource[types.BidList]{
	Name:  "bidList",
	Title: "Bid List",
	Noun:  "Bid",
	Fields: []Field{
		{Name: "account", Label: "Account", Kind: KindText, Required: true, List: true},
		{Name: "type", Label: "Type", Kind: KindText, Required: true, List: true},
		{Name: "bidQuantity", Label: "Bid quantity", Kind: KindNumber, Required: true, List: true},
		{Name: "askQuantity", Label: "Ask quantity", Kind: KindNumber},
		{Name: "bid", Label: "Bid", Kind: KindNumber},
		{Name: "ask", Label: "Ask", Kind: KindNumber},
		{Name: "benchmark", Label: "Benchmark", Kind: KindText},
		{Name: "bidListDate", Label: "Bid list date", Kind: KindDate},
		{Name: "commentary", Label: "Commentary", Kind: KindText},
		{Name: "security", Label: "Security", Kind: KindText},
		{Name: "status", Label: "Status", Kind: KindText},
		{Name: "trader", Label: "Trader", Kind: KindText},
		{Name: "book", Label: "Book", Kind: KindText},
		{Name: "creationName", Label: "Creation name", Kind: KindText},
		{Name: "revisionName", Label: "Revision name", Kind: KindText},
		{Name: "dealName", Label: "Deal name", Kind: KindText},
		{Name: "dealType", Label: "Deal type", Kind: KindText},
		{Name: "sourceListId", Label: "Source list ID", Kind: KindText},
		{Name: "side", Label: "Side", Kind: KindText},
	},
	ID: func(b types.BidList) int { return b.ID },
	decode: func(r *reader) types.BidList {
		return types.BidList{
			Account:      r.text("account"),
			Type:         r.text("type"),
			BidQuantity:  r.float("bidQuantity"),
			AskQuantity:  r.float("askQuantity"),
			Bid:          r.float("bid"),
			Ask:          r.float("ask"),
			Benchmark:    r.text("benchmark"),
			BidListDate:  r.date("bidListDate"),
			Commentary:   r.text("commentary"),
			Security:     r.text("security"),
			Status:       r.text("status"),
			Trader:       r.text("trader"),
			Book:         r.text("book"),
			CreationName: r.text("creationName"),
			RevisionName: r.text("revisionName"),
			DealName:     r.text("dealName"),
			DealType:     r.text("dealType"),
			SourceListID: r.text("sourceListId"),
			Side:         r.text("side"),
		}
	},
	encode: func(b types.BidList, w writer) {
		w.text("account", b.Account)
		w.text("type", b.Type)
		w.float("bidQuantity", b.BidQuantity)
		w.float("askQuantity", b.AskQuantity)
		w.float("bid", b.Bid)
		w.float("ask", b.Ask)
		w.text("benchmark", b.Benchmark)
		w.date("bidListDate", b.BidListDate)
		w.text("commentary", b.Commentary)
		w.text("security", b.Security)
		w.text("status", b.Status)
		w.text("trader", b.Trader)
		w.text("book", b.Book)
		w.text("creationName", b.CreationName)
		w.text("revisionName", b.RevisionName)
		w.text("dealName", b.DealName)
		w.text("dealType", b.DealType)
		w.text("sourceListId", b.SourceListID)
		w.text("side", b.Side)
	},
}

var CurvePoints = Resource[types.CurvePoint]{
	Name:  "curvePoint",
	Title: "Curve Points",
	Noun:  "Curve point",
	Fields: []Field{
		{Name: "curveId", Label: "Curve identifier", Kind: KindNumber, Required: true, List: true},
		{Name: "asOfDate", Label: "As of date", Kind: KindDate},
		{Name: "term", Label: "Curve term", Kind: KindNumber, List: true},
		{Name: "value", Label: "Curve value", Kind: KindNumber, List: true},
	},
	ID: func(c types.CurvePoint) int { return c.ID },
	decode: func(r *reader) types.CurvePoint {
		return types.CurvePoint{
			CurveID:  r.int("curveId"),
			AsOfDate: r.date("asOfDate"),
			Term:     r.float("term"),
			Value:    r.float("value"),
		}
	},
	encode: func(c types.CurvePoint, w writer) {
		w.int("curveId", c.CurveID)
		w.date("asOfDate", c.AsOfDate)
		w.float("term", c.Term)
		w.float("value", c.Value)
	},
}

var Ratings = Resource[types.Rating]{
	Name:  "rating",
	Title: "Ratings",
	Noun:  "Rating",
	Fields: []Field{
		{Name: "moodysRating", Label: "Moody's rating", Kind: KindText, Required: true, List: true},
		{Name: "sandPRating", Label: "S&P rating", Kind: KindText, Required: true, List: true},
		{Name: "fitchRating", Label: "Fitch rating", Kind: KindText, Required: true, List: true},
		{Name: "orderNumber", Label: "Order number", Kind: KindNumber, List: true},
	},
	ID: func(rt types.Rating) int { return rt.ID },
	decode: func(r *reader) types.Rating {
		return types.Rating{
			MoodysRating: r.text("moodysRating"),
			SandPRating:  r.text("sandPRating"),
			FitchRating:  r.text("fitchRating"),
			OrderNumber:  r.int("orderNumber"),
		}
	},
	encode: func(rt types.Rating, w writer) {
		w.text("moodysRating", rt.MoodysRating)
		w.text("sandPRating", rt.SandPRating)
		w.text("fitchRating", rt.FitchRating)
		w.int("orderNumber", rt.OrderNumber)
	},
}

var RuleNames = Resource[types.RuleName]{
	Name:  "ruleName",
	Title: "Rules",
	Noun:  "Rule",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true, List: true},
		{Name: "description", Label: "Description", Kind: KindText, Required: true, List: true},
		{Name: "json", Label: "JSON", Kind: KindText, Required: true, List: true},
		{Name: "template", Label: "Template", Kind: KindTextarea, Required: true, List: true},
		{Name: "sqlStr", Label: "SQL query", Kind: KindText, Required: true, List: true},
		{Name: "sqlPart", Label: "SQL part", Kind: KindText, Required: true, List: true},
	},
	ID: func(rn types.RuleName) int { return rn.ID },
	decode: func(r *reader) types.RuleName {
		return types.RuleName{
			Name:        r.text("name"),
			Description: r.text("description"),
			JSON:        r.text("json"),
			Template:    r.text("template"),
			SQLStr:      r.text("sqlStr"),
			SQLPart:     r.text("sqlPart"),
		}
	},
	encode: func(rn types.RuleName, w writer) {
		w.text("name", rn.Name)
		w.text("description", rn.Description)
		w.text("json", rn.JSON)
		w.text("template", rn.Template)
		w.text("sqlStr", rn.SQLStr)
		w.text("sqlPart", rn.SQLPart)
	},
}

var Trades = Resource[types.Trade]{
	Name:  "trade",
	Title: "Trades",
	Noun:  "Trade",
	Fields: []Field{
		{Name: "account", Label: "Account", Kind: KindText, Required: true, List: true},
		{Name: "type", Label: "Type", Kind: KindText, Required: true, List: true},
		{Name: "buyQuantity", Label: "Buy quantity", Kind: KindNumber, List: true},
		{Name: "sellQuantity", Label: "Sell quantity", Kind: KindNumber},
		{Name: "buyPrice", Label: "Buy price", Kind: KindNumber},
		{Name: "sellPrice", Label: "Sell price", Kind: KindNumber},
		{Name: "benchmark", Label: "Benchmark", Kind: KindText},
		{Name: "tradeDate", Label: "Trade date", Kind: KindDate},
		{Name: "security", Label: "Security", Kind: KindText},
		{Name: "status", Label: "Status", Kind: KindText},
		{Name: "trader", Label: "Trader", Kind: KindText},
		{Name: "book", Label: "Book", Kind: KindText},
		{Name: "creationName", Label: "Creation name", Kind: KindText},
		{Name: "revisionName", Label: "Revision name", Kind: KindText},
		{Name: "dealName", Label: "Deal name", Kind: KindText},
		{Name: "dealType", Label: "Deal type", Kind: KindText},
		{Name: "sourceListId", Label: "Source list ID", Kind: KindText},
		{Name: "side", Label: "Side", Kind: KindText},
	},
	ID: func(t types.Trade) int { return t.ID },
	decode: func(r *reader) types.Trade {
		return types.Trade{
			Account:      r.text("account"),
			Type:         r.text("type"),
			BuyQuantity:  r.float("buyQuantity"),
			SellQuantity: r.float("sellQuantity"),
			BuyPrice:     r.float("buyPrice"),
			SellPrice:    r.float("sellPrice"),
			Benchmark:    r.text("benchmark"),
			TradeDate:    r.date("tradeDate"),
			Security:     r.text("security"),
			Status:       r.text("status"),
			Trader:       r.text("trader"),
			Book:         r.text("book"),
			CreationName: r.text("creationName"),
			RevisionName: r.text("revisionName"),
			DealName:     r.text("dealName"),
			DealType:     r.text("dealType"),
			SourceListID: r.text("sourceListId"),
			Side:         r.text("side"),
		}
	},
	encode: func(t types.Trade, w writer) {
		w.text("account", t.Account)
		w.text("type", t.Type)
		w.float("buyQuantity", t.BuyQuantity)
		w.float("sellQuantity", t.SellQuantity)
		w.float("buyPrice", t.BuyPrice)
		w.float("sellPrice", t.SellPrice)
		w.text("benchmark", t.Benchmark)
		w.date("tradeDate", t.TradeDate)
		w.text("security", t.Security)
		w.text("status", t.Status)
		w.text("trader", t.Trader)
		w.text("book", t.Book)
		w.text("creationName", t.CreationName)
		w.text("revisionName", t.RevisionName)
		w.text("dealName", t.DealName)
		w.text("dealType", t.DealType)
		w.text("sourceListId", t.SourceListID)
		w.text("side", t.Side)
	},
}

// UserForm is a user as submitted through the admin form. Password is the
// plaintext entry and is never rendered back.
type UserForm struct {
	User     types.User
	Password string
}

var Users = Resource[UserForm]{
	Name:  "user",
	Title: "Users",
	Noun:  "User",
	Fields: []Field{
		{Name: "username", Label: "Username", Kind: KindText, Required: true, List: true},
		{Name: "fullname", Label: "Full name", Kind: KindText, Required: true, List: true},
		{Name: "password", Label: "Password", Kind: KindPassword},
		{Name: "role", Label: "Role", Kind: KindSelect, Options: []string{string(types.RoleAdmin), string(types.RoleUser)}, Required: true, List: true},
	},
	ID: func(u UserForm) int { return u.User.ID },
	decode: func(r *reader) UserForm {
		return UserForm{
			User: types.User{
				Username: r.text("username"),
				FullName: r.text("fullname"),
				Role:     types.Role(r.text("role")),
			},
			// Passwords are taken verbatim; surrounding spaces are significant.
			Password: r.values.Get("password"),
		}
	},
	encode: func(u UserForm, w writer) {
		w.text("username", u.User.Username)
		w.text("fullname", u.User.FullName)
		w.text("role", string(u.User.Role))
	},
}
