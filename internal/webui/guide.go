package webui

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// guideMarkdown is the built-in user guide, rendered on demand.
const guideMarkdown = `# APK Editor User Guide

## Getting started

1. Upload an APK file on the home page. The file is decompiled with apktool,
   which can take a few minutes for large apps.
2. Open the project page and pick a resource from the tree on the left.
3. Edit the content. The preview pane on the right updates as you type.
4. Save the resource, then compile and sign the APK.
5. Download the result with the Download button.

## Editable resources

| Type   | Location                  | Editing                           |
|--------|---------------------------|-----------------------------------|
| string | res/values/strings.xml    | text form per string entry        |
| layout | res/layout/*.xml          | raw XML with a schematic preview  |
| image  | res/drawable-*/           | replace by uploading a new file   |

## Compile and sign

Compile rebuilds the APK from the decompiled tree. With the default
"signed" option the server signs the result right away; pick "unsigned"
if you want to sign with your own key later.

Signing uses jarsigner with the configured keystore:

` + "```" + `yaml
tools:
  jarsigner_path: /usr/bin/jarsigner
  keystore:
    path: ~/.android/debug.keystore
    alias: androiddebugkey
` + "```" + `

## AI connection

The Test AI button sends a minimal request to the configured model to
verify the API key. Set the key in the settings form or through the
environment variable named in the configuration.

## Troubleshooting

* **apktool not found** — install apktool and put it on the PATH, or set
  ` + "`tools.apktool_path`" + ` in the configuration file.
* **signing failed** — check the keystore path and passwords. The compiled
  APK is kept, so you can fix the configuration and sign again.
* **preview shows a warning** — the XML is not well-formed. The editor
  still lets you save, but the APK will not compile until it parses.
`

var guideRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// renderGuide converts the built-in guide markdown to HTML.
func renderGuide() (template.HTML, error) {
	var buf bytes.Buffer
	if err := guideRenderer.Convert([]byte(guideMarkdown), &buf); err != nil {
		return "", fmt.Errorf("rendering guide: %w", err)
	}
	return template.HTML(buf.String()), nil
}
