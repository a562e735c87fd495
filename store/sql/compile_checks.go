package sqlstore

import "github.com/goliatone/go-approvals/core"

var (
	_ core.ResultStore = (*ResultStore)(nil)
	_ core.ResultStore = (*CachedResultStore)(nil)
)
