package veganify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/veganify/codec"
	"github.com/unkn0wn-root/veganify/internal/util"
	pr "github.com/unkn0wn-root/veganify/provider"
)

// Cache names, as reported to Hooks and logs.
const (
	CacheProduct       = "product"
	CacheIngredients   = "ingredients"
	CacheIngredientsV0 = "ingredients_v0"
	CachePeta          = "peta"
)

// Client owns one TTLCache per resource kind and exposes the API operations.
// Safe for concurrent use. Build one with New and share it; use a Registry
// when independent callers should share clients by configuration.
//
// Request paths embed barcodes and ingredient tokens verbatim. A bare '%'
// is sent as is; only spaces, control bytes and a few delimiters are
// percent-encoded so the request line stays valid.
type Client struct {
	base  string
	fetch *fetcher
	log   Logger

	products      *TTLCache[ProductResponse]
	ingredients   *TTLCache[IngredientsCheckResponse]
	ingredientsV0 *TTLCache[IngredientsCheckResponseV0]
	peta          *TTLCache[PetaCrueltyFreeResponse]

	sf *singleflight.Group // nil unless Config.CoalesceRequests

	closeOnce sync.Once
	closeErr  error
}

func New(cfg Config) (*Client, error) {
	log := coalesce[Logger](cfg.Logger, NopLogger{})
	hooks := coalesce[Hooks](cfg.Hooks, NopHooks{})
	ttl := cfg.cacheTTL()

	cl := &Client{
		base:  cfg.baseURL(),
		fetch: newFetcher(cfg.HTTPClient, cfg.Header, log, hooks),
		log:   log,
	}
	if cfg.now != nil {
		cl.fetch.now = cfg.now
	}
	if cfg.CoalesceRequests {
		cl.sf = &singleflight.Group{}
	}

	var err error
	if cl.products, err = newCache[ProductResponse](cfg, CacheProduct, ttl, log, hooks); err != nil {
		return nil, cl.abort(err)
	}
	if cl.ingredients, err = newCache[IngredientsCheckResponse](cfg, CacheIngredients, ttl, log, hooks); err != nil {
		return nil, cl.abort(err)
	}
	if cl.ingredientsV0, err = newCache[IngredientsCheckResponseV0](cfg, CacheIngredientsV0, ttl, log, hooks); err != nil {
		return nil, cl.abort(err)
	}
	if cl.peta, err = newCache[PetaCrueltyFreeResponse](cfg, CachePeta, ttl, log, hooks); err != nil {
		return nil, cl.abort(err)
	}

	log.Debug("client ready", Fields{"base_url": cl.base, "cache_ttl": ttl, "coalesce": cfg.CoalesceRequests})
	return cl, nil
}

func newCache[V any](cfg Config, name string, ttl time.Duration, log Logger, hooks Hooks) (*TTLCache[V], error) {
	cd, err := codec.ByName[V](cfg.Codec)
	if err != nil {
		return nil, err
	}
	if cfg.MaxEntryBytes > 0 {
		cd = codec.Limit[V]{Inner: cd, MaxDecode: cfg.MaxEntryBytes}
	}

	var p pr.Provider
	if ttl > 0 && cfg.Providers != nil {
		if p, err = cfg.Providers(name, ttl+expiryGrace); err != nil {
			return nil, fmt.Errorf("veganify: %s cache provider: %w", name, err)
		}
	}

	return NewTTLCache[V](CacheOptions[V]{
		Name:     name,
		TTL:      ttl,
		Provider: p,
		Codec:    cd,
		Logger:   log,
		Hooks:    hooks,
		Now:      cfg.now,
	})
}

// abort releases caches built before a construction failure.
func (cl *Client) abort(err error) error {
	_ = cl.Close(context.Background())
	return err
}

// BaseURL is the API root requests are sent to.
func (cl *Client) BaseURL() string { return cl.base }

// GetProductByBarcode looks a product up by its numeric barcode.
func (cl *Client) GetProductByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	if !isBarcode(barcode) {
		return nil, validationError(fmt.Sprintf("invalid barcode %q: expected decimal digits", barcode), nil)
	}
	return cached(ctx, cl, cl.products, util.ProductKey(barcode), func(ctx context.Context) (ProductResponse, error) {
		return fetchValidated[ProductResponse](ctx, cl.fetch, cl.base, productSchema, requestOptions{
			Op:     "product lookup",
			Method: http.MethodPost,
			Path:   "/v0/product/" + barcode,
		})
	})
}

// CheckOption adjusts how an ingredient list is turned into tokens.
type CheckOption func(*checkOptions)

type checkOptions struct {
	raw bool
}

// WithoutPreprocessing sends the list split on commas instead of normalized.
func WithoutPreprocessing() CheckOption {
	return func(o *checkOptions) { o.raw = true }
}

func ingredientTokens(list string, opts []CheckOption) ([]string, error) {
	var o checkOptions
	for _, opt := range opts {
		opt(&o)
	}
	var tokens []string
	if o.raw {
		tokens = SplitRaw(list)
	} else {
		tokens = Normalize(list)
	}
	if len(tokens) == 0 {
		return nil, validationError("ingredient list is empty", nil)
	}
	return tokens, nil
}

// CheckIngredientsList classifies an ingredient list with the v1 endpoint.
// The list is normalized first unless WithoutPreprocessing is given.
func (cl *Client) CheckIngredientsList(ctx context.Context, list string, opts ...CheckOption) (*IngredientsCheckResponse, error) {
	tokens, err := ingredientTokens(list, opts)
	if err != nil {
		return nil, err
	}
	joined := util.JoinTokens(tokens)
	return cached(ctx, cl, cl.ingredients, util.IngredientsKey(tokens), func(ctx context.Context) (IngredientsCheckResponse, error) {
		return fetchValidated[IngredientsCheckResponse](ctx, cl.fetch, cl.base, ingredientsV1Schema, requestOptions{
			Op:   "ingredients check",
			Path: "/v1/ingredients/" + joined,
		})
	})
}

// CheckIngredientsListV0 classifies an ingredient list with the legacy v0
// endpoint. Token handling matches CheckIngredientsList.
func (cl *Client) CheckIngredientsListV0(ctx context.Context, list string, opts ...CheckOption) (*IngredientsCheckResponseV0, error) {
	tokens, err := ingredientTokens(list, opts)
	if err != nil {
		return nil, err
	}
	joined := util.JoinTokens(tokens)
	return cached(ctx, cl, cl.ingredientsV0, util.IngredientsV0Key(tokens), func(ctx context.Context) (IngredientsCheckResponseV0, error) {
		return fetchValidated[IngredientsCheckResponseV0](ctx, cl.fetch, cl.base, ingredientsV0Schema, requestOptions{
			Op:   "ingredients check v0",
			Path: "/v0/ingredients/" + joined,
		})
	})
}

// GetPetaCrueltyFreeBrands lists brands PETA reports as not testing on animals.
func (cl *Client) GetPetaCrueltyFreeBrands(ctx context.Context) (*PetaCrueltyFreeResponse, error) {
	return cached(ctx, cl, cl.peta, util.PetaCrueltyFreeKey, func(ctx context.Context) (PetaCrueltyFreeResponse, error) {
		return fetchValidated[PetaCrueltyFreeResponse](ctx, cl.fetch, cl.base, petaSchema, requestOptions{
			Op:   "peta cruelty-free brands",
			Path: "/v0/peta/crueltyfree",
		})
	})
}

// ClearCache empties every cache owned by the client.
func (cl *Client) ClearCache(ctx context.Context) error {
	return errors.Join(
		cl.products.Clear(ctx),
		cl.ingredients.Clear(ctx),
		cl.ingredientsV0.Clear(ctx),
		cl.peta.Clear(ctx),
	)
}

// Close releases the caches' providers. Safe to call more than once.
func (cl *Client) Close(ctx context.Context) error {
	cl.closeOnce.Do(func() {
		var errs []error
		if cl.products != nil {
			errs = append(errs, cl.products.Close(ctx))
		}
		if cl.ingredients != nil {
			errs = append(errs, cl.ingredients.Close(ctx))
		}
		if cl.ingredientsV0 != nil {
			errs = append(errs, cl.ingredientsV0.Close(ctx))
		}
		if cl.peta != nil {
			errs = append(errs, cl.peta.Close(ctx))
		}
		cl.closeErr = errors.Join(errs...)
	})
	return cl.closeErr
}

// cached serves key from tc or loads, stores and returns it. A failed store
// is logged; the loaded value is still returned.
func cached[T any](ctx context.Context, cl *Client, tc *TTLCache[T], key string, load func(context.Context) (T, error)) (*T, error) {
	v, ok, err := tc.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return &v, nil
	}

	fill := func() (T, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if err := tc.Set(ctx, key, v); err != nil {
			cl.log.Warn("cache set failed", Fields{"cache": tc.Name(), "key": util.ShortHash(key), "err": err})
		}
		return v, nil
	}

	if cl.sf == nil {
		v, err := fill()
		if err != nil {
			return nil, err
		}
		return &v, nil
	}

	res, err, shared := cl.sf.Do(tc.Name()+"\x00"+key, func() (any, error) { return fill() })
	if err != nil {
		return nil, err
	}
	v = res.(T)
	if shared {
		// other callers hold the same value; hand out an independent copy
		if v, err = tc.Clone(v); err != nil {
			return nil, err
		}
	}
	return &v, nil
}

func isBarcode(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
