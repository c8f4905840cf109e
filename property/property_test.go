package property

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given the property registry", t, func() {
		Convey("Known names resolve to exactly one kind", func() {
			for name, want := range map[string]Kind{
				"time-pos":    KindFloat,
				"speed":       KindFloat,
				"pause":       KindBool,
				"idle-active": KindBool,
				"media-title": KindString,
				"track-list":  KindString,
			} {
				k, ok := Lookup(name)
				So(ok, ShouldBeTrue)
				So(k, ShouldEqual, want)
			}
		})

		Convey("Unknown names are absent", func() {
			_, ok := Lookup("bogus")
			So(ok, ShouldBeFalse)
			_, ok = Lookup("")
			So(ok, ShouldBeFalse)
		})

		Convey("Names filters by kind and sorts", func() {
			bools := Names(KindBool)
			So(bools, ShouldContain, "pause")
			So(bools, ShouldNotContain, "volume")
			for i := 1; i < len(bools); i++ {
				So(bools[i-1] < bools[i], ShouldBeTrue)
			}

			all := Names(0)
			So(len(all), ShouldEqual, len(Names(KindFloat))+len(Names(KindBool))+len(Names(KindString)))
		})

		Convey("Kinds round-trip through their names", func() {
			for _, k := range []Kind{KindFloat, KindBool, KindString} {
				parsed, ok := ParseKind(k.String())
				So(ok, ShouldBeTrue)
				So(parsed, ShouldEqual, k)
			}
			_, ok := ParseKind("int")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestValue(t *testing.T) {
	Convey("Given untyped property payloads", t, func() {
		Convey("A float property accepts numbers", func() {
			v, err := Property{Name: "volume", Data: 42}.Value()
			So(err, ShouldBeNil)
			f, ok := v.Float()
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 42.0)
		})

		Convey("A kind mismatch is an error, not a panic", func() {
			_, err := Property{Name: "speed", Data: "fast"}.Value()
			So(errors.Is(err, ErrKindMismatch), ShouldBeTrue)

			_, err = Property{Name: "pause", Data: 1.0}.Value()
			So(errors.Is(err, ErrKindMismatch), ShouldBeTrue)
		})

		Convey("Unknown names and missing data are reported", func() {
			_, err := Property{Name: "bogus", Data: 1.0}.Value()
			So(errors.Is(err, ErrUnknownProperty), ShouldBeTrue)

			_, err = Property{Name: "pause"}.Value()
			So(errors.Is(err, ErrMissingValue), ShouldBeTrue)
		})

		Convey("Non-finite floats are rejected", func() {
			_, err := Typed(KindFloat, math.Inf(1))
			So(errors.Is(err, ErrKindMismatch), ShouldBeTrue)
			_, err = Typed(KindFloat, math.NaN())
			So(errors.Is(err, ErrKindMismatch), ShouldBeTrue)
		})
	})

	Convey("Given typed values marshaled to JSON", t, func() {
		marshal := func(p Property) string {
			b, err := json.Marshal(p)
			So(err, ShouldBeNil)
			return string(b)
		}

		Convey("Floats and bools keep their JSON types", func() {
			So(marshal(New("time-pos", Float(12.5))), ShouldEqual, `{"name":"time-pos","data":12.5}`)
			So(marshal(New("pause", Bool(true))), ShouldEqual, `{"name":"pause","data":true}`)
		})

		Convey("Strings holding JSON are embedded as JSON", func() {
			p := New("track-list", String(`[{"id":1,"type":"video"}]`))
			So(marshal(p), ShouldEqual, `{"name":"track-list","data":[{"id":1,"type":"video"}]}`)
		})

		Convey("Other strings stay strings", func() {
			So(marshal(New("media-title", String("Big Buck Bunny"))), ShouldEqual, `{"name":"media-title","data":"Big Buck Bunny"}`)
			So(marshal(New("media-title", String(""))), ShouldEqual, `{"name":"media-title","data":""}`)
		})

		Convey("Untypable data is omitted", func() {
			So(marshal(Property{Name: "speed", Data: "fast"}), ShouldEqual, `{"name":"speed"}`)
			So(marshal(Property{Name: "pause"}), ShouldEqual, `{"name":"pause"}`)
		})

		Convey("String renders the plain value", func() {
			So(Float(1.25).String(), ShouldEqual, "1.25")
			So(Bool(false).String(), ShouldEqual, "false")
			So(Value{}.String(), ShouldEqual, "<nil>")
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Registered names can be searched fuzzily", t, func() {
		So(Search("", KindBool), ShouldResemble, Names(KindBool))

		matches := Search("tpos", 0)
		So(matches, ShouldNotBeEmpty)
		So(matches[0], ShouldEqual, "time-pos")

		So(Search("pause", KindFloat), ShouldBeEmpty)
		So(Search("PAUSE", KindBool), ShouldContain, "pause")
		So(Search("zzzz", 0), ShouldBeEmpty)
	})
}
