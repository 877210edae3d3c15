package preview

import (
	"reflect"
	"testing"
)

func TestRenderStringAppName(t *testing.T) {
	res := RenderString(`<string name="app_name">Demo</string>`)

	if !res.WellFormed {
		t.Fatal("expected well-formed result")
	}
	if len(res.Fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(res.Fragments))
	}
	frag := res.Fragments[0]
	if frag.Kind != KindTitle {
		t.Errorf("expected title fragment, got %s", frag.Kind)
	}
	if frag.Text != "Demo" {
		t.Errorf("expected text Demo, got %q", frag.Text)
	}
}

func TestRenderStringClassification(t *testing.T) {
	content := `<resources>
		<string name="main_title">Welcome</string>
		<string name="submit_button">Submit</string>
		<string name="login_btn">Log in</string>
		<string name="description">Some text</string>
	</resources>`

	res := RenderString(content)
	if !res.WellFormed {
		t.Fatal("expected well-formed result")
	}

	want := []Kind{KindTitle, KindButton, KindButton, KindText}
	if len(res.Fragments) != len(want) {
		t.Fatalf("expected %d fragments, got %d", len(want), len(res.Fragments))
	}
	for i, frag := range res.Fragments {
		if frag.Kind != want[i] {
			t.Errorf("fragment %d (%s): expected %s, got %s", i, frag.Name, want[i], frag.Kind)
		}
	}
}

func TestRenderStringMalformed(t *testing.T) {
	// Unclosed resources element, but individual entries are still intact.
	content := `<resources><string name="app_name">Demo</string>`

	res := RenderString(content)
	if res.WellFormed {
		t.Error("expected well-formed false")
	}
	if len(res.Fragments) != 1 || res.Fragments[0].Text != "Demo" {
		t.Errorf("expected best-effort extraction, got %+v", res.Fragments)
	}
}

func TestRenderLayoutButton(t *testing.T) {
	res := RenderLayout(`<LinearLayout><Button/></LinearLayout>`)

	if !res.WellFormed {
		t.Fatal("expected well-formed XML")
	}
	if len(res.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(res.Fragments))
	}
	if res.Fragments[0].Kind != KindContainer {
		t.Errorf("expected container first, got %s", res.Fragments[0].Kind)
	}
	if res.Fragments[1].Kind != KindButton {
		t.Errorf("expected button placeholder, got %s", res.Fragments[1].Kind)
	}
}

func TestRenderLayoutMalformed(t *testing.T) {
	res := RenderLayout(`<LinearLayout><Button>`)

	if res.WellFormed {
		t.Error("expected well-formed false")
	}
	if len(res.Fragments) == 0 {
		t.Error("malformed layout should still render a fragment")
	}
	if res.Fragments[0].Kind != KindRaw {
		t.Errorf("expected raw fragment, got %s", res.Fragments[0].Kind)
	}
}

func TestRenderLayoutRecognizedKinds(t *testing.T) {
	content := `<RelativeLayout>
		<TextView android:text="Hello"/>
		<EditText/>
		<ImageView/>
		<CustomView/>
	</RelativeLayout>`

	res := RenderLayout(content)
	if !res.WellFormed {
		t.Fatal("expected well-formed XML")
	}

	want := []Kind{KindContainer, KindText, KindInput, KindImage, KindWidget}
	if len(res.Fragments) != len(want) {
		t.Fatalf("expected %d fragments, got %d", len(want), len(res.Fragments))
	}
	for i, frag := range res.Fragments {
		if frag.Kind != want[i] {
			t.Errorf("fragment %d: expected %s, got %s", i, want[i], frag.Kind)
		}
	}
	if res.Fragments[1].Text != "Hello" {
		t.Errorf("expected android:text carried through, got %q", res.Fragments[1].Text)
	}
}

func TestRenderIdempotent(t *testing.T) {
	inputs := []struct {
		resType string
		content string
	}{
		{"string", `<string name="app_name">Demo</string>`},
		{"string", `<resources><string name="x">y</string></resources>`},
		{"layout", `<LinearLayout><Button/></LinearLayout>`},
		{"layout", `<LinearLayout><Button>`},
		{"other", `anything`},
	}

	for _, in := range inputs {
		first := Render(in.resType, in.content)
		second := Render(in.resType, in.content)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Render(%s) not idempotent:\n first %+v\nsecond %+v", in.resType, first, second)
		}
	}
}

func TestRenderEmptyContent(t *testing.T) {
	res := RenderString("")
	if !res.WellFormed {
		t.Error("empty string table should be well-formed")
	}
	if len(res.Fragments) != 0 {
		t.Errorf("expected no fragments, got %d", len(res.Fragments))
	}

	res = RenderLayout("")
	if res.WellFormed {
		t.Error("empty layout should not be well-formed")
	}
}

func TestRenderImage(t *testing.T) {
	res := RenderImage("icon.png", 2048)
	if !res.WellFormed {
		t.Error("expected well-formed")
	}
	if len(res.Fragments) != 1 || res.Fragments[0].Kind != KindImage {
		t.Fatalf("expected one image fragment, got %+v", res.Fragments)
	}
	if res.Fragments[0].Text != "2.0 kB" {
		t.Errorf("expected humanized size, got %q", res.Fragments[0].Text)
	}

	res = RenderImage("icon.png", 0)
	if res.Fragments[0].Text != "" {
		t.Errorf("unknown size must be omitted, got %q", res.Fragments[0].Text)
	}
}

func TestRenderDispatchesImages(t *testing.T) {
	res := Render("image", "res/drawable/icon.png")
	if !res.WellFormed {
		t.Error("expected well-formed")
	}
	if len(res.Fragments) != 1 {
		t.Fatalf("expected one fragment, got %d", len(res.Fragments))
	}
	frag := res.Fragments[0]
	if frag.Kind != KindImage {
		t.Errorf("expected an image fragment, got %s", frag.Kind)
	}
	if frag.Name != "res/drawable/icon.png" {
		t.Errorf("expected the path as the name, got %q", frag.Name)
	}
}
