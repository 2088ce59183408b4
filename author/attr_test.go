// Copyright 2025, Framewell, Inc.

package author

import (
	"testing"
	"time"

	"github.com/go-test/deep"
)

func TestStrAttrOptionalUnset(t *testing.T) {
	a := StrAttr{attrCore: attrCore{key: "comment"}}
	got, err := a.render(&renderContext{})
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if got != "" {
		t.Errorf("render = %q, expected empty string", got)
	}
}

func TestStrAttrRequiredUnset(t *testing.T) {
	a := StrAttr{attrCore: attrCore{key: "title", required: true}}
	_, err := a.render(&renderContext{})
	if err == nil {
		t.Fatal("expected an error but did not get one")
	}
	rve, ok := err.(RequiredValueError)
	if !ok {
		t.Fatalf("err type = %T, expected RequiredValueError", err)
	}
	if rve.Attr != "title" {
		t.Errorf("RequiredValueError.Attr = %s, expected title", rve.Attr)
	}
}

func TestStrAttrRender(t *testing.T) {
	a := StrAttr{attrCore: attrCore{key: "title"}}
	a.Set("two layer job")
	got, err := a.render(&renderContext{})
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if got != " -title {two layer job}" {
		t.Errorf("render = %q, expected %q", got, " -title {two layer job}")
	}
}

func TestStrAttrSuppressedKey(t *testing.T) {
	a := StrAttr{attrCore: attrCore{key: "title", noKey: true}}
	a.Set("comp")
	got, _ := a.render(&renderContext{})
	if got != " {comp}" {
		t.Errorf("render = %q, expected %q", got, " {comp}")
	}
}

func TestIntAttrRender(t *testing.T) {
	values := map[int]string{
		2:  " -atleast 2",
		0:  " -atleast 0",
		-3: " -atleast -3",
	}
	for v, expected := range values {
		a := IntAttr{attrCore: attrCore{key: "atleast"}}
		a.Set(v)
		got, err := a.render(&renderContext{})
		if err != nil {
			t.Errorf("err = %s, expected nil", err)
		}
		if got != expected {
			t.Errorf("render(%d) = %q, expected %q", v, got, expected)
		}
	}
}

func TestFloatAttrPrecision(t *testing.T) {
	a := FloatAttr{attrCore: attrCore{key: "priority"}, precision: 1}
	a.Set(10)
	got, err := a.render(&renderContext{})
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if got != " -priority {10.0}" {
		t.Errorf("render = %q, expected %q", got, " -priority {10.0}")
	}

	a.Set(12.345)
	got, _ = a.render(&renderContext{})
	if got != " -priority {12.3}" {
		t.Errorf("render = %q, expected %q", got, " -priority {12.3}")
	}
}

func TestDateAttrRender(t *testing.T) {
	a := DateAttr{attrCore: attrCore{key: "after"}}
	a.Set(time.Date(2012, 12, 14, 16, 24, 5, 0, time.UTC))
	got, err := a.render(&renderContext{})
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if got != " -after {12 14 16:24}" {
		t.Errorf("render = %q, expected %q", got, " -after {12 14 16:24}")
	}
}

func TestBoolAttrRender(t *testing.T) {
	a := BoolAttr{attrCore: attrCore{key: "paused"}}
	a.Set(true)
	got, _ := a.render(&renderContext{})
	if got != " -paused 1" {
		t.Errorf("render = %q, expected %q", got, " -paused 1")
	}
	a.Set(false)
	got, _ = a.render(&renderContext{})
	if got != " -paused 0" {
		t.Errorf("render = %q, expected %q", got, " -paused 0")
	}
}

func TestStrListAttrRender(t *testing.T) {
	a := StrListAttr{attrCore: attrCore{key: "tags"}}
	a.Set([]string{"tag1", "tag2"})
	got, _ := a.render(&renderContext{})
	if got != " -tags {{tag1} {tag2}}" {
		t.Errorf("render = %q, expected %q", got, " -tags {{tag1} {tag2}}")
	}
}

func TestStrListAttrEscapesBackslashes(t *testing.T) {
	a := StrListAttr{attrCore: attrCore{key: "tags"}}
	a.Set([]string{`X:\proj`})
	got, _ := a.render(&renderContext{})
	if got != ` -tags {{X:\\proj}}` {
		t.Errorf("render = %q, expected %q", got, ` -tags {{X:\\proj}}`)
	}
}

func TestStrListAttrEmptyIsUnset(t *testing.T) {
	a := StrListAttr{attrCore: attrCore{key: "tags"}}
	a.Set([]string{})
	if a.HasValue() {
		t.Error("empty list HasValue = true, expected false")
	}
	got, err := a.render(&renderContext{})
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if got != "" {
		t.Errorf("render = %q, expected empty string", got)
	}
}

func TestIntListAttrRender(t *testing.T) {
	a := IntListAttr{attrCore: attrCore{key: "retryrc"}}
	a.Set([]int{1, 3, 5})
	got, _ := a.render(&renderContext{})
	if got != " -retryrc {1 3 5}" {
		t.Errorf("render = %q, expected %q", got, " -retryrc {1 3 5}")
	}
}

func TestArgvAttrSetLine(t *testing.T) {
	a := ArgvAttr{StrListAttr{attrCore: attrCore{key: "argv"}}}
	a.SetLine("comp fg.tif bg.tif final.tif")
	if diff := deep.Equal(a.Value(), []string{"comp", "fg.tif", "bg.tif", "final.tif"}); diff != nil {
		t.Error(diff)
	}
}

func TestWhenAttrValidation(t *testing.T) {
	a := WhenAttr{StrAttr{attrCore: attrCore{key: "when"}}}
	if err := a.Set("bogus"); err == nil {
		t.Fatal("expected an error but did not get one")
	} else if _, ok := err.(TypeValidationError); !ok {
		t.Errorf("err type = %T, expected TypeValidationError", err)
	}
	if a.HasValue() {
		t.Error("attribute has a value after a rejected set")
	}
	if err := a.Set(WhenDone); err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	got, _ := a.render(&renderContext{})
	if got != " -when {done}" {
		t.Errorf("render = %q, expected %q", got, " -when {done}")
	}
}

func TestSetAnyWrongType(t *testing.T) {
	attrs := []Attr{
		&StrAttr{attrCore: attrCore{key: "title"}},
		&IntAttr{attrCore: attrCore{key: "atleast"}},
		&BoolAttr{attrCore: attrCore{key: "paused"}},
		&DateAttr{attrCore: attrCore{key: "after"}},
		&StrListAttr{attrCore: attrCore{key: "tags"}},
		&IntListAttr{attrCore: attrCore{key: "retryrc"}},
	}
	for _, a := range attrs {
		err := a.setAny(struct{}{})
		if err == nil {
			t.Errorf("%s: expected an error but did not get one", a.Name())
			continue
		}
		if _, ok := err.(TypeValidationError); !ok {
			t.Errorf("%s: err type = %T, expected TypeValidationError", a.Name(), err)
		}
	}
}

func TestGroupAttrIndentation(t *testing.T) {
	g := GroupAttr{attrCore: attrCore{key: "init"}}
	g.add(NewAssign("tempdir", "/tmp"))
	g.add(NewAssign("shot", "sq100"))
	got, err := g.render(&renderContext{})
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	expected := " -init {\n  Assign tempdir {/tmp}\n  Assign shot {sq100}\n}"
	if got != expected {
		t.Errorf("render = %q, expected %q", got, expected)
	}
}
