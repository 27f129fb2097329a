package service

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func newID() string {
	return uuid.NewString()
}

func randBytesFromStr(length int, from string) ([]byte, error) {
	b := make([]byte, length)
	fromLenBigInt := big.NewInt(int64(len(from)))
	for i := range b {
		r, err := rand.Int(rand.Reader, fromLenBigInt)
		if err != nil {
			return nil, err
		}
		b[i] = from[r.Int64()]
	}
	return b, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title, strips diacritics and joins words with '-'.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, title)
	if err != nil {
		s = title
	}
	s = strings.ToLower(s)
	s = strings.NewReplacer("đ", "d", "Đ", "d").Replace(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Excerpt returns the first ExcerptLength characters of content followed by "...".
func Excerpt(content string) string {
	r := []rune(content)
	if len(r) <= common.ExcerptLength {
		return content
	}
	return string(r[:common.ExcerptLength]) + "..."
}

// PricePerSqm is nil unless both price and area are positive.
func PricePerSqm(price decimal.Decimal, area float64) *decimal.Decimal {
	if !price.IsPositive() || area <= 0 {
		return nil
	}
	v := price.Div(decimal.NewFromFloat(area)).Round(2)
	return &v
}

// Page is the skip/limit window shared by every list endpoint.
type Page struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}

// Normalize clamps the page to [1, max] with def as the fallback limit.
func (p Page) Normalize(def, max int) Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	return p
}

var sortableColumns = map[string]bool{
	"created_at": true,
	"price":      true,
	"area":       true,
	"views":      true,
}

// OrderExpr builds a safe ORDER BY expression from user input. Columns that
// are not sortable (or not present on the table) fall back to created_at.
func OrderExpr(sortBy, order string, allowArea bool) string {
	if !sortableColumns[sortBy] || (sortBy == "area" && !allowArea) {
		sortBy = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(order, "asc") {
		dir = "ASC"
	}
	return sortBy + " " + dir
}

// likePattern escapes LIKE wildcards in q and wraps it for a substring match.
func likePattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}
