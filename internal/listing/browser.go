package listing

// Browser is the listing state behind the programs page. Changing the
// search text or any filter returns to page 1; changing only the sort
// key keeps the current page.
type Browser struct {
	q Query
}

func NewBrowser() *Browser {
	return &Browser{q: Query{Sort: SortByName, Page: 1}}
}

// Query returns a copy of the current query
func (b *Browser) Query() Query {
	return b.q
}

func (b *Browser) SetSearch(s string) {
	b.q.Search = s
	b.q.Page = 1
}

func (b *Browser) SetState(s string) {
	b.q.State = s
	b.q.Page = 1
}

func (b *Browser) SetUSMLEStep(s string) {
	b.q.USMLEStep = s
	b.q.Page = 1
}

func (b *Browser) SetVisa(s string) {
	b.q.Visa = s
	b.q.Page = 1
}

func (b *Browser) SetLOR(v *bool) {
	b.q.LOR = v
	b.q.Page = 1
}

func (b *Browser) SetAccepting(v *bool) {
	b.q.Accepting = v
	b.q.Page = 1
}

// SetSort does not touch the page.
// TODO: decide with product whether a sort change should also return to page 1.
func (b *Browser) SetSort(k SortKey) {
	b.q.Sort = k
}

func (b *Browser) SetPage(p int) {
	b.q.Page = p
}

// Reset clears every filter and the search text; the sort key is kept.
func (b *Browser) Reset() {
	b.q = Query{Sort: b.q.Sort, Page: 1}
}
