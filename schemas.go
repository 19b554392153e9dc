package veganify

import s "github.com/unkn0wn-root/veganify/internal/schema"

var flagSchema = s.Union(s.Bool(), s.Literal("n/a"))

var productSchema = s.Object(
	s.Req("status", s.Integer()),
	s.Req("product", s.Object(
		s.Req("productname", s.String()),
		s.Opt("genericname", s.String()),
		s.Opt("vegan", flagSchema),
		s.Opt("vegetarian", flagSchema),
		s.Opt("animaltestfree", flagSchema),
		s.Opt("palmoil", flagSchema),
		s.Opt("nutriscore", s.String()),
		s.Opt("grade", s.String()),
	)),
	s.Req("sources", s.Object(
		s.Req("processed", s.Bool()),
		s.Req("api", s.String()),
		s.Req("baseuri", s.String()),
	)),
)

var stringList = s.Array(s.String())

var ingredientsV1Schema = s.Object(
	s.Req("code", s.String()),
	s.Req("status", s.String()),
	s.Req("message", s.String()),
	s.Req("data", s.Object(
		s.Req("vegan", s.Bool()),
		s.Req("surely_vegan", stringList),
		s.Req("not_vegan", stringList),
		s.Req("maybe_not_vegan", stringList),
		s.Req("unknown", stringList),
	)),
)

var ingredientsV0Schema = s.Object(
	s.Req("code", s.String()),
	s.Req("status", s.String()),
	s.Req("message", s.String()),
	s.Req("data", s.Object(
		s.Req("vegan", s.Bool()),
		s.Opt("flagged", stringList),
		s.Opt("surely_vegan", stringList),
		s.Opt("not_vegan", stringList),
		s.Opt("maybe_vegan", stringList),
	)),
)

var petaSchema = s.Object(
	s.Req("LAST_UPDATE", s.String()),
	s.Req("ENTRIES", s.String()),
	s.Req("PETA_DOES_NOT_TEST", stringList),
)
