// Package model normalizes and caches the text and image model lists.
//
// The list endpoints have used several response shapes over time; Normalize
// turns each of them into []Model with every optional flag filled in:
//
//	models, err := model.Normalize([]byte(`["flux", {"name":"turbo","teir":"seed"}]`))
//	// models[0].SupportsSystemMessages == true
//	// models[1].Tier == "seed"
//
// A Catalog caches one list per Kind until Refresh:
//
//	cat := model.NewCatalog(fetch)
//	m, err := cat.Find(ctx, "GPT-4o-mini") // matches aliases, any case
package model
