package profile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceEmptyProfile(t *testing.T) {
	assert.Zero(t, Confidence(Empty()))
}

func TestConfidenceCountsNonEmptyFields(t *testing.T) {
	p := Empty()
	p.Fields["a"] = String("x")
	p.Fields["b"] = Number(3)
	p.Fields["c"] = List("i")
	assert.Equal(t, 3.0, Confidence(p))
}

func TestConfidenceIgnoresEmptyValues(t *testing.T) {
	p := Empty()
	p.Fields["blank"] = String("")
	p.Fields["zero"] = Number(0)
	p.Fields["nolist"] = List()
	p.Fields["norec"] = Record(nil)
	assert.Zero(t, Confidence(p))
}

func TestConfidenceHighValueBonuses(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *Profile)
		want  float64
	}{
		{
			name: "name bonus",
			build: func(p *Profile) {
				p.Fields[CategoryBasic] = Record(map[string]Value{"name": String("陳大大")})
			},
			want: 2, // 1 field + name bonus
		},
		{
			name: "interests bonus",
			build: func(p *Profile) {
				p.Fields[CategoryInterests] = List("打球")
			},
			want: 2,
		},
		{
			name: "education bonus",
			build: func(p *Profile) {
				p.Fields[CategoryEducation] = Record(map[string]Value{"school": String("台灣大學")})
			},
			want: 2,
		},
		{
			name: "phone bonus",
			build: func(p *Profile) {
				p.Fields[CategoryContact] = Record(map[string]Value{"phone": String("0912345678")})
			},
			want: 2,
		},
		{
			name: "email also satisfies contact bonus",
			build: func(p *Profile) {
				p.Fields[CategoryContact] = Record(map[string]Value{"email": String("a@b.tw")})
			},
			want: 2,
		},
		{
			name: "phone and email grant the bonus once",
			build: func(p *Profile) {
				p.Fields[CategoryContact] = Record(map[string]Value{
					"phone": String("0912345678"),
					"email": String("a@b.tw"),
				})
			},
			want: 2,
		},
		{
			name: "all bonuses stack",
			build: func(p *Profile) {
				p.Fields[CategoryBasic] = Record(map[string]Value{"name": String("n")})
				p.Fields[CategoryInterests] = List("x")
				p.Fields[CategoryEducation] = String("高中")
				p.Fields[CategoryContact] = Record(map[string]Value{"phone": String("0911")})
			},
			want: 8, // 4 fields + 4 bonuses
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Empty()
			tt.build(&p)
			assert.Equal(t, tt.want, Confidence(p))
		})
	}
}

func TestConfidenceClampedAtMax(t *testing.T) {
	p := Empty()
	p.Fields[CategoryBasic] = Record(map[string]Value{"name": String("n")})
	p.Fields[CategoryInterests] = List("x")
	p.Fields[CategoryEducation] = String("s")
	p.Fields[CategoryContact] = Record(map[string]Value{"phone": String("0911")})
	for i := 0; i < 20; i++ {
		p.Fields[fmt.Sprintf("extra%d", i)] = String("v")
	}

	assert.Equal(t, MaxConfidence, Confidence(p))
}

func TestConfidenceMonotonic(t *testing.T) {
	p := Empty()
	prev := Confidence(p)

	fields := []string{"a", "b", CategoryInterests, CategoryEducation, "c", "d"}
	for i, name := range fields {
		if name == CategoryInterests {
			p.Fields[name] = List("item")
		} else {
			p.Fields[name] = String(fmt.Sprintf("v%d", i))
		}
		cur := Confidence(p)
		assert.GreaterOrEqual(t, cur, prev, "adding %q decreased confidence", name)
		assert.LessOrEqual(t, cur, MaxConfidence)
		prev = cur
	}
}
