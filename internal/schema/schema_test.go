package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

var flag = Union(Bool(), Literal("n/a"))

var product = Object(
	Req("status", Integer()),
	Req("product", Object(
		Req("productname", String()),
		Opt("vegan", flag),
	)),
	Req("tags", Array(String())),
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", s, err)
	}
	return v
}

func TestValidateAccepts(t *testing.T) {
	docs := []string{
		`{"status":200,"product":{"productname":"x"},"tags":[]}`,
		`{"status":200,"product":{"productname":"x","vegan":true},"tags":["a"]}`,
		`{"status":200,"product":{"productname":"x","vegan":"n/a"},"tags":["a","b"],"extra":1}`,
	}
	for _, d := range docs {
		if err := Validate(product, decode(t, d)); err != nil {
			t.Fatalf("%s: unexpected violation: %v", d, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		doc  string
		path string
		got  string
	}{
		{`[]`, "", "array"},
		{`{"product":{"productname":"x"},"tags":[]}`, "status", "undefined"},
		{`{"status":"200","product":{"productname":"x"},"tags":[]}`, "status", `"200"`},
		{`{"status":200.5,"product":{"productname":"x"},"tags":[]}`, "status", "number"},
		{`{"status":200,"product":{"productname":null},"tags":[]}`, "product.productname", "null"},
		{`{"status":200,"product":{"productname":"x","vegan":"maybe"},"tags":[]}`, "product.vegan", `"maybe"`},
		{`{"status":200,"product":{"productname":"x","vegan":null},"tags":[]}`, "product.vegan", "null"},
		{`{"status":200,"product":{"productname":"x"},"tags":["a",1]}`, "tags[1]", "number"},
	}
	for _, tc := range cases {
		err := Validate(product, decode(t, tc.doc))
		var v *Violation
		if !errors.As(err, &v) {
			t.Fatalf("%s: expected *Violation, got %v", tc.doc, err)
		}
		if v.Path != tc.path || v.Got != tc.got {
			t.Fatalf("%s: got path=%q got=%q; want path=%q got=%q", tc.doc, v.Path, v.Got, tc.path, tc.got)
		}
	}
}

func TestViolationMessage(t *testing.T) {
	err := Validate(Object(Req("a", Bool())), decode(t, `{"a":"yes"}`))
	if err == nil || err.Error() != `schema: a: expected boolean, got "yes"` {
		t.Fatalf("unexpected message: %v", err)
	}
	err = Validate(String(), decode(t, `1`))
	if err == nil || err.Error() != "schema: (root): expected string, got number" {
		t.Fatalf("unexpected root message: %v", err)
	}
}

func TestUnionDescribe(t *testing.T) {
	if got := flag.Describe(); got != `boolean | "n/a"` {
		t.Fatalf("Describe=%q", got)
	}
	if got := Array(Number()).Describe(); got != "array of number" {
		t.Fatalf("Describe=%q", got)
	}
	if err := Validate(Null(), nil); err != nil {
		t.Fatalf("Null should accept nil: %v", err)
	}
}
