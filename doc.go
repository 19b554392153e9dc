// Package veganify is a typed, cached client for the Veganify product and
// ingredient classification API. Classification happens on the server; this
// package shapes requests, validates responses against fixed schemas, maps
// failures onto a small error taxonomy and caches results per resource kind.
//
// Components:
//   - Normalize: turns a free-text ingredient list into distinct tokens.
//   - TTLCache[V]: per-entry expiry over a byte Provider and a Codec[V]. Values
//     are encoded on Set and decoded on Get, so callers never share a cached
//     value with each other or with the cache.
//   - fetcher: one HTTP attempt per call, status mapping, schema validation.
//   - Client: one TTLCache per resource kind plus the public operations.
//
// Keys:
//
//	product:<barcode>
//	ingredients:<token>,<token>,...
//	ingredients-v0:<token>,<token>,...
//	peta:crueltyfree
//
// Errors:
//
//	_, err := client.GetProductByBarcode(ctx, "4066600204404")
//	switch {
//	case errors.Is(err, veganify.ErrNotFound):   // 404
//	case errors.Is(err, veganify.ErrValidation): // bad input, 400, bad response shape
//	case errors.Is(err, veganify.ErrService):    // any other non-2xx
//	case err != nil:                             // transport or JSON decoding
//	}
package veganify
