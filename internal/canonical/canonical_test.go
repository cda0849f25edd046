package canonical

import (
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"

	"github.com/sokinpui/jsonsort.go/model"
)

var twoSpaces = model.Indentation{InsertSpaces: true, TabSize: 2}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent model.Indentation
		want   string
	}{
		{
			name:   "sorts top level keys",
			input:  `{"b":1,"a":2}`,
			indent: twoSpaces,
			want:   "{\n  \"a\": 2,\n  \"b\": 1\n}",
		},
		{
			name:   "keeps array order",
			input:  `[3,2,1]`,
			indent: twoSpaces,
			want:   "[\n  3,\n  2,\n  1\n]",
		},
		{
			name:   "sorts nested keys",
			input:  `{"z":{"y":true,"x":null},"a":[{"d":1,"c":2}]}`,
			indent: twoSpaces,
			want:   "{\n  \"a\": [\n    {\n      \"c\": 2,\n      \"d\": 1\n    }\n  ],\n  \"z\": {\n    \"x\": null,\n    \"y\": true\n  }\n}",
		},
		{
			name:   "tab indentation",
			input:  `{"b":{"c":1},"a":2}`,
			indent: model.Indentation{InsertSpaces: false, TabSize: 4},
			want:   "{\n\t\"a\": 2,\n\t\"b\": {\n\t\t\"c\": 1\n\t}\n}",
		},
		{
			name:   "four spaces",
			input:  `{"b":1,"a":2}`,
			indent: model.Indentation{InsertSpaces: true, TabSize: 4},
			want:   "{\n    \"a\": 2,\n    \"b\": 1\n}",
		},
		{
			name:   "zero width is compact",
			input:  "{\n  \"b\": [1, 2],\n  \"a\": 2\n}",
			indent: model.Indentation{InsertSpaces: true, TabSize: 0},
			want:   `{"a":2,"b":[1,2]}`,
		},
		{
			name:   "scalar string",
			input:  `""`,
			indent: twoSpaces,
			want:   `""`,
		},
		{
			name:   "empty object",
			input:  `{}`,
			indent: twoSpaces,
			want:   `{}`,
		},
		{
			name:   "surrounding whitespace is dropped",
			input:  "  \n\ttrue \n",
			indent: twoSpaces,
			want:   `true`,
		},
		{
			name:   "numbers use shortest form",
			input:  `[1.0,1e2,-0,0.5,12345678901234567890]`,
			indent: model.Indentation{InsertSpaces: true},
			want:   `[1,100,0,0.5,12345678901234567000]`,
		},
		{
			name:   "byte order of keys",
			input:  `{"é":1,"z":2,"a":3,"A":4}`,
			indent: model.Indentation{InsertSpaces: true},
			want:   `{"A":4,"a":3,"z":2,"é":1}`,
		},
		{
			name:   "html characters are not escaped",
			input:  `{"k":"</script>&"}`,
			indent: model.Indentation{InsertSpaces: true},
			want:   `{"k":"</script>&"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Serialize(tt.input, tt.indent)
			if !res.Success {
				t.Fatalf("Serialize(%q) failed: %v", tt.input, res.Err)
			}
			if res.Text != tt.want {
				t.Errorf("Serialize() mismatch:\ngot:\n%s\nwant:\n%s", res.Text, tt.want)
			}
		})
	}
}

func TestSerializeRejectsMalformed(t *testing.T) {
	inputs := map[string]string{
		"unterminated object": `{bad json`,
		"trailing content":    `{} {}`,
		"trailing comma":      `[1,2,]`,
		"empty":               ``,
		"whitespace only":     "   \n",
		"single quotes":       `{'a':1}`,
		"bare word":           `hello`,
		"duplicate keys":      `{"a":1,"a":2}`,
		"invalid utf8":        "\"\xff\xfe\"",
		"lone surrogate":      `"\ud800"`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			res := Serialize(input, twoSpaces)
			if res.Success {
				t.Fatalf("Serialize(%q) succeeded with %q, want failure", input, res.Text)
			}
			if res.Text != "" {
				t.Errorf("failed result carries text %q", res.Text)
			}
			if res.Err == nil {
				t.Error("failed result has no error")
			}
		})
	}
}

func TestSerializeProperties(t *testing.T) {
	inputs := []string{
		`{"b":1,"a":2}`,
		`[3,2,1]`,
		`{"outer":{"z":[3,{"q":1,"p":2}],"m":"s"},"alpha":false}`,
		`"just a string"`,
		`42`,
		`null`,
		`[{"b":[],"a":{}},[[["deep"]]]]`,
	}
	indents := []model.Indentation{
		twoSpaces,
		{InsertSpaces: true, TabSize: 4},
		{InsertSpaces: false},
		{InsertSpaces: true},
	}

	for _, input := range inputs {
		for _, indent := range indents {
			first := Serialize(input, indent)
			if !first.Success {
				t.Fatalf("Serialize(%q) failed: %v", input, first.Err)
			}

			var want, got any
			if err := json.Unmarshal([]byte(input), &want); err != nil {
				t.Fatal(err)
			}
			if err := json.Unmarshal([]byte(first.Text), &got); err != nil {
				t.Fatalf("output %q does not parse: %v", first.Text, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip of %q changed the value (-want +got):\n%s", input, diff)
			}

			second := Serialize(first.Text, indent)
			if !second.Success || second.Text != first.Text {
				t.Errorf("Serialize is not idempotent for %q:\nfirst:\n%s\nsecond:\n%s", input, first.Text, second.Text)
			}

			if strings.HasSuffix(first.Text, "\n") {
				t.Errorf("output of %q ends with a newline", input)
			}
		}
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	input := `{"k9":9,"k3":3,"k7":7,"k1":1,"k5":5,"k8":8,"k2":2,"k6":6,"k4":4}`
	want := Serialize(input, twoSpaces).Text
	for i := 0; i < 50; i++ {
		if got := Serialize(input, twoSpaces).Text; got != want {
			t.Fatalf("run %d produced different output:\n%s\nwant:\n%s", i, got, want)
		}
	}
}
