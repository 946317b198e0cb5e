package cluster

import (
	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/config"
)

// Resolve computes the effective resource request for every stage kind.
// Precedence, lowest to highest: run-wide slurm defaults, the template's
// pinned base, the operator's stage override. Walltime comes from the
// template's class unless the override sets one.
func Resolve(cfg *config.Config, cat *catalog.Catalog) map[catalog.Kind]catalog.Request {
	def := cfg.RunRequest()

	out := make(map[catalog.Kind]catalog.Request, len(cat.Order()))
	for _, kind := range cat.Order() {
		tpl, ok := cat.Template(kind)
		if !ok {
			continue
		}

		req := tpl.Base.Merged(def)
		req.Time = tpl.Walltime.Limit()
		if override, ok := cfg.StageOverride(kind); ok {
			req = override.Merged(req)
		}
		out[kind] = req
	}
	return out
}
