package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/authority"
	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/scontext"
)

// AuthoritySlot consults origin whitelist/blacklist rules (spec §4.2,
// step 5).
type AuthoritySlot struct {
	Manager *authority.Manager
}

func (AuthoritySlot) Priority() int { return 500 }

func (s AuthoritySlot) OnEntry(_ context.Context, ctx *scontext.Context, entry *scontext.Entry, _ int64, _ bool, _ ...interface{}) base.BlockError {
	ok, rule := s.Manager.CheckOrigin(entry.Resource.Name, ctx.Origin)
	if ok {
		return nil
	}
	return base.NewAuthorityError(entry.Resource.Name, ctx.Origin, rule)
}
