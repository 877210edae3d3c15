// Package preview renders resource content into coarse visual fragments for
// the live editor pane. Rendering is a pure function of its inputs: the same
// (type, content) pair always yields the same result and touches no state.
package preview

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/dustin/go-humanize"
)

// Kind classifies a rendered fragment.
type Kind string

const (
	KindTitle     Kind = "title"
	KindButton    Kind = "button"
	KindText      Kind = "text"
	KindInput     Kind = "input"
	KindImage     Kind = "image"
	KindContainer Kind = "container"
	KindWidget    Kind = "widget"
	KindRaw       Kind = "raw"
)

// Fragment is one rendered element of the preview pane.
type Fragment struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// Result is the rendered preview of one resource.
type Result struct {
	WellFormed bool       `json:"well_formed"`
	Fragments  []Fragment `json:"fragments"`
}

// layoutKinds maps Android view elements to their placeholder kind.
// Unlisted elements render as generic widgets.
var layoutKinds = map[string]Kind{
	"Button":         KindButton,
	"ImageButton":    KindButton,
	"TextView":       KindText,
	"EditText":       KindInput,
	"ImageView":      KindImage,
	"LinearLayout":   KindContainer,
	"RelativeLayout": KindContainer,
	"FrameLayout":    KindContainer,
	"ScrollView":     KindContainer,
	"ListView":       KindContainer,
	"RecyclerView":   KindContainer,
	"GridLayout":     KindContainer,
	"TableLayout":    KindContainer,
}

// stringEntry is a lenient fallback matcher for name/value pairs when the
// XML does not parse.
var stringEntry = regexp.MustCompile(`<string\s+name="([^"]*)"\s*>([^<]*)</string>`)

// Render dispatches on the resource type. Unknown types render as a single
// raw fragment so callers never have to special-case them.
func Render(resourceType, content string) Result {
	switch resourceType {
	case "string":
		return RenderString(content)
	case "layout":
		return RenderLayout(content)
	case "image":
		// Binary content never travels through the session; the content is
		// the resource path.
		return RenderImage(content, 0)
	default:
		return Result{WellFormed: true, Fragments: []Fragment{{Kind: KindRaw, Text: content}}}
	}
}

// RenderString renders string-table content. Entries are classified by
// naming convention: title-like names render as titles, button-like names as
// button elements, everything else as plain text.
func RenderString(content string) Result {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(wrapFragment(content)); err != nil {
		return Result{WellFormed: false, Fragments: fallbackStrings(content)}
	}

	var fragments []Fragment
	for _, el := range doc.FindElements("//string") {
		name := el.SelectAttrValue("name", "")
		fragments = append(fragments, Fragment{
			Kind: classifyStringName(name),
			Name: name,
			Text: strings.TrimSpace(el.Text()),
		})
	}
	if fragments == nil {
		fragments = []Fragment{}
	}
	return Result{WellFormed: true, Fragments: fragments}
}

// RenderLayout structurally parses layout XML and renders a coarse
// placeholder per recognized view element. Malformed XML reports
// WellFormed=false and still renders a best-effort raw fragment.
func RenderLayout(content string) Result {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return Result{
			WellFormed: false,
			Fragments:  []Fragment{{Kind: KindRaw, Text: content}},
		}
	}

	var fragments []Fragment
	root := doc.Root()
	if root == nil {
		return Result{
			WellFormed: false,
			Fragments:  []Fragment{{Kind: KindRaw, Text: content}},
		}
	}
	walkLayout(root, &fragments)
	return Result{WellFormed: true, Fragments: fragments}
}

// RenderImage renders the metadata-only placeholder for a binary image
// resource. A zero size means unknown and is omitted.
func RenderImage(name string, size int64) Result {
	f := Fragment{Kind: KindImage, Name: name}
	if size > 0 {
		f.Text = humanize.Bytes(uint64(size))
	}
	return Result{
		WellFormed: true,
		Fragments:  []Fragment{f},
	}
}

func walkLayout(el *etree.Element, out *[]Fragment) {
	kind, ok := layoutKinds[el.Tag]
	if !ok {
		kind = KindWidget
	}
	*out = append(*out, Fragment{
		Kind: kind,
		Name: el.Tag,
		Text: el.SelectAttrValue("android:text", ""),
	})
	for _, child := range el.ChildElements() {
		walkLayout(child, out)
	}
}

// classifyStringName keys the fragment kind off the resource name.
func classifyStringName(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "title") || lower == "app_name":
		return KindTitle
	case strings.Contains(lower, "button") || strings.Contains(lower, "btn"):
		return KindButton
	default:
		return KindText
	}
}

// wrapFragment allows bare <string> elements without a <resources> root.
func wrapFragment(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "<resources") || strings.HasPrefix(trimmed, "<?xml") {
		return content
	}
	return "<resources>" + content + "</resources>"
}

// fallbackStrings extracts whatever name/value pairs it can from unparsable
// content so the preview still shows something useful.
func fallbackStrings(content string) []Fragment {
	fragments := []Fragment{}
	for _, m := range stringEntry.FindAllStringSubmatch(content, -1) {
		fragments = append(fragments, Fragment{
			Kind: classifyStringName(m[1]),
			Name: m[1],
			Text: strings.TrimSpace(m[2]),
		})
	}
	return fragments
}
