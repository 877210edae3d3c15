package webui

// indexTemplate is the project list page with the upload and settings forms.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>APK Editor</title>
  <link rel="stylesheet" href="/style.css">
</head>
<body>
  <header class="top">
    <h1>APK Editor</h1>
    <nav><a href="/guide">User Guide</a></nav>
  </header>
  <main>
    <section class="card">
      <h2>Upload APK</h2>
      <form id="upload-form" action="/upload" method="post" enctype="multipart/form-data">
        <input type="file" id="apk-file" name="apk" accept="{{.Extension}}">
        <input type="text" name="name" id="project-name" placeholder="Project name (optional)">
        <button type="submit" id="upload-btn" disabled>Upload &amp; Decompile</button>
      </form>
      <p class="hint">Only {{.Extension}} files up to {{.MaxUpload}} are accepted.</p>
      <p class="notice" id="upload-notice"></p>
    </section>

    <section class="card">
      <h2>Projects</h2>
      {{if .Projects}}
      <table>
        <thead><tr><th>Name</th><th>Package</th><th>Status</th><th>Size</th><th></th></tr></thead>
        <tbody>
        {{range .Projects}}
          <tr>
            <td><a href="/project/{{.ID}}">{{.Name}}</a></td>
            <td>{{.PackageName}}</td>
            <td><span class="status status-{{.Status}}">{{.Status}}</span></td>
            <td>{{.HumanSize}}</td>
            <td><button class="danger" data-delete="{{.ID}}">Delete</button></td>
          </tr>
        {{end}}
        </tbody>
      </table>
      {{else}}
      <p class="hint">No projects yet. Upload an APK to get started.</p>
      {{end}}
    </section>

    <section class="card">
      <h2>Tools</h2>
      <ul class="tools">
        {{range $name, $ok := .Tools}}
        <li>{{$name}}: {{if $ok}}<span class="ok">available</span>{{else}}<span class="bad">not found</span>{{end}}</li>
        {{end}}
      </ul>
    </section>

    <section class="card">
      <h2>AI Settings</h2>
      <form id="settings-form">
        <input type="password" name="api_key" placeholder="API key">
        <input type="text" name="model" placeholder="Model" value="{{.Model}}">
        <input type="text" name="base_url" placeholder="Base URL (optional)" value="{{.BaseURL}}">
        <button type="submit">Save</button>
        <button type="button" id="test-ai-btn">Test AI</button>
      </form>
      <p class="notice" id="settings-notice"></p>
    </section>
  </main>
  <script>
  (function () {
    var maxBytes = {{.MaxBytes}};
    var fileInput = document.getElementById('apk-file');
    var uploadBtn = document.getElementById('upload-btn');
    var notice = document.getElementById('upload-notice');

    // Mirror of the server-side rules: wrong extension or oversize files
    // never leave the browser.
    fileInput.addEventListener('change', function () {
      notice.textContent = '';
      uploadBtn.disabled = true;
      var f = fileInput.files[0];
      if (!f) { return; }
      if (!f.name.toLowerCase().endsWith('{{.Extension}}')) {
        notice.textContent = 'Only {{.Extension}} files are accepted.';
        fileInput.value = '';
        return;
      }
      if (f.size > maxBytes) {
        notice.textContent = 'File is too large: the limit is {{.MaxUpload}}.';
        fileInput.value = '';
        return;
      }
      uploadBtn.disabled = false;
    });

    document.querySelectorAll('[data-delete]').forEach(function (btn) {
      btn.addEventListener('click', function () {
        if (!confirm('Delete this project?')) { return; }
        fetch('/api/projects/' + btn.dataset.delete, {method: 'DELETE'})
          .then(function () { location.reload(); });
      });
    });

    var settingsForm = document.getElementById('settings-form');
    var settingsNotice = document.getElementById('settings-notice');
    settingsForm.addEventListener('submit', function (ev) {
      ev.preventDefault();
      fetch('/api/settings', {method: 'POST', body: new URLSearchParams(new FormData(settingsForm))})
        .then(function (r) { return r.json(); })
        .then(function (resp) { settingsNotice.textContent = resp.message; });
    });
    document.getElementById('test-ai-btn').addEventListener('click', function () {
      settingsNotice.textContent = 'Testing...';
      fetch('/test_ai', {method: 'POST'})
        .then(function (r) { return r.json(); })
        .then(function (resp) { settingsNotice.textContent = resp.message; });
    });
  })();
  </script>
</body>
</html>`

// projectTemplate is the editor page: resource tree, edit pane, live preview,
// and the action buttons driven by the websocket session.
const projectTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Project.Name}} — APK Editor</title>
  <link rel="stylesheet" href="/style.css">
</head>
<body>
  <header class="top">
    <h1><a href="/">APK Editor</a> / {{.Project.Name}}</h1>
    <span class="status status-{{.Project.Status}}">{{.Project.Status}}</span>
  </header>
  <main class="editor">
    <aside class="tree card">
      <h2>Strings</h2>
      <ul>
        {{range .Resources.Strings}}
        <li><a href="#" data-type="string" data-path="{{.Path}}">{{.Name}}</a></li>
        {{end}}
      </ul>
      <h2>Layouts</h2>
      <ul>
        {{range .Resources.Layouts}}
        <li><a href="#" data-type="layout" data-path="{{.Path}}">{{.Name}}</a></li>
        {{end}}
      </ul>
      <h2>Images</h2>
      <ul>
        {{range .Resources.Images}}
        <li><a href="#" data-type="image" data-path="{{.Path}}">{{.Name}} <span class="hint">{{.HumanSize}}</span></a></li>
        {{end}}
      </ul>
    </aside>

    <section class="pane card">
      <h2 id="resource-title">Select a resource</h2>
      <textarea id="editor" spellcheck="false" disabled></textarea>
      <form id="save-form" style="display:none">
        <button type="submit">Save resource</button>
      </form>
    </section>

    <section class="pane card">
      <h2>Preview</h2>
      <div id="preview" class="preview"></div>
      <div class="actions">
        <button id="act-compile" data-action="compile">Compile (signed)</button>
        <button id="act-sign" data-action="sign">Sign APK</button>
        <button id="act-test_ai" data-action="test_ai">Test AI</button>
        <a class="button" href="/download/{{.Project.ID}}">Download</a>
      </div>
      <p class="notice" id="notice"></p>
    </section>
  </main>
  <script>
  (function () {
    var projectID = '{{.Project.ID}}';
    var current = null; // {type, path}
    var editor = document.getElementById('editor');
    var notice = document.getElementById('notice');
    var previewEl = document.getElementById('preview');

    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var sock = new WebSocket(proto + location.host + '/ws/projects/' + projectID);

    sock.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      switch (msg.type) {
      case 'state':
        applyState(msg.state);
        break;
      case 'preview':
        renderPreview(msg.preview);
        break;
      case 'notice':
        notice.textContent = msg.message;
        notice.className = 'notice ' + msg.level;
        break;
      case 'reload':
        location.reload();
        break;
      case 'error':
        notice.textContent = msg.message;
        notice.className = 'notice error';
        break;
      }
    };

    function applyState(state) {
      if (!state || !state.pending) { return; }
      Object.keys(state.pending).forEach(function (kind) {
        var btn = document.getElementById('act-' + kind);
        if (!btn) { return; }
        var op = state.pending[kind];
        btn.disabled = op.state === 'running';
        if (op.state === 'succeeded' || op.state === 'failed') {
          // Re-arm the button after a terminal state has been shown.
          sock.send(JSON.stringify({type: 'ack', kind: kind}));
        }
      });
    }

    function renderPreview(result) {
      previewEl.innerHTML = '';
      if (!result) { return; }
      if (!result.well_formed) {
        var warn = document.createElement('p');
        warn.className = 'warn';
        warn.textContent = 'Markup is not well-formed; showing best effort.';
        previewEl.appendChild(warn);
      }
      (result.fragments || []).forEach(function (f) {
        var el;
        switch (f.kind) {
        case 'title': el = document.createElement('h3'); el.textContent = f.text; break;
        case 'button': el = document.createElement('button'); el.textContent = f.text || f.name; break;
        case 'input': el = document.createElement('input'); el.placeholder = f.text || f.name; break;
        case 'image': el = document.createElement('div'); el.className = 'ph-image'; el.textContent = f.name; break;
        case 'container': el = document.createElement('div'); el.className = 'ph-container'; el.textContent = f.name; break;
        default: el = document.createElement('p'); el.textContent = f.text || f.name;
        }
        previewEl.appendChild(el);
      });
    }

    document.querySelectorAll('.tree a[data-path]').forEach(function (link) {
      link.addEventListener('click', function (ev) {
        ev.preventDefault();
        current = {type: link.dataset.type, path: link.dataset.path};
        document.getElementById('resource-title').textContent = link.dataset.path;
        if (current.type === 'image') {
          editor.value = '';
          editor.disabled = true;
          sock.send(JSON.stringify({type: 'open_resource', resource_type: 'image', path: current.path, content: current.path}));
          return;
        }
        fetch('/api/projects/' + projectID + '/resource?type=' + current.type + '&path=' + encodeURIComponent(current.path))
          .then(function (r) { return r.json(); })
          .then(function (resp) {
            editor.value = resp.content || '';
            editor.disabled = false;
            document.getElementById('save-form').style.display = '';
            sock.send(JSON.stringify({type: 'open_resource', resource_type: current.type, path: current.path, content: editor.value}));
          });
      });
    });

    // Every keystroke goes to the session; the server coalesces bursts
    // before recomputing the preview.
    editor.addEventListener('input', function () {
      sock.send(JSON.stringify({type: 'edit', content: editor.value}));
    });

    document.getElementById('save-form').addEventListener('submit', function (ev) {
      ev.preventDefault();
      if (!current) { return; }
      var body = new URLSearchParams();
      body.set('type', current.type);
      body.set('path', current.path);
      body.set('content', editor.value);
      fetch('/api/projects/' + projectID + '/resource', {method: 'POST', body: body})
        .then(function (r) { return r.json(); })
        .then(function (resp) { notice.textContent = resp.message; });
    });

    document.querySelectorAll('[data-action]').forEach(function (btn) {
      btn.addEventListener('click', function () {
        sock.send(JSON.stringify({type: 'action', kind: btn.dataset.action}));
      });
    });
  })();
  </script>
</body>
</html>`

// guideTemplate wraps the goldmark-rendered user guide.
const guideTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>User Guide — APK Editor</title>
  <link rel="stylesheet" href="/style.css">
</head>
<body>
  <header class="top">
    <h1><a href="/">APK Editor</a> / User Guide</h1>
  </header>
  <main>
    <article class="card content">
      {{.Content}}
    </article>
  </main>
</body>
</html>`

// cssContent is the shared stylesheet.
const cssContent = `:root {
  --bg: #f6f7f9;
  --fg: #1f2328;
  --card: #ffffff;
  --border: #d0d7de;
  --accent: #0969da;
  --ok: #1a7f37;
  --bad: #cf222e;
}
* { box-sizing: border-box; }
body { margin: 0; background: var(--bg); color: var(--fg); font-family: system-ui, sans-serif; }
a { color: var(--accent); text-decoration: none; }
header.top { display: flex; justify-content: space-between; align-items: center; padding: 12px 24px; background: var(--card); border-bottom: 1px solid var(--border); }
header.top h1 { margin: 0; font-size: 18px; }
main { max-width: 1200px; margin: 24px auto; padding: 0 16px; display: flex; flex-direction: column; gap: 16px; }
main.editor { flex-direction: row; align-items: flex-start; }
.card { background: var(--card); border: 1px solid var(--border); border-radius: 8px; padding: 16px; }
.card h2 { margin-top: 0; font-size: 15px; }
.tree { width: 260px; flex-shrink: 0; max-height: 80vh; overflow-y: auto; }
.tree ul { list-style: none; padding-left: 8px; }
.pane { flex: 1; }
textarea#editor { width: 100%; height: 340px; font-family: ui-monospace, monospace; font-size: 13px; border: 1px solid var(--border); border-radius: 6px; padding: 8px; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid var(--border); font-size: 14px; }
button, a.button { background: var(--accent); color: #fff; border: none; border-radius: 6px; padding: 8px 14px; cursor: pointer; font-size: 13px; display: inline-block; }
button:disabled { opacity: 0.5; cursor: not-allowed; }
button.danger { background: var(--bad); }
input[type=text], input[type=password] { border: 1px solid var(--border); border-radius: 6px; padding: 8px; font-size: 13px; margin: 2px 0; }
.hint { color: #57606a; font-size: 13px; }
.notice { font-size: 13px; min-height: 1.2em; }
.notice.error { color: var(--bad); }
.notice.info { color: var(--ok); }
.warn { color: var(--bad); font-size: 13px; }
.ok { color: var(--ok); }
.bad { color: var(--bad); }
.status { padding: 2px 8px; border-radius: 10px; font-size: 12px; border: 1px solid var(--border); }
.status-signed { color: var(--ok); border-color: var(--ok); }
.status-failed { color: var(--bad); border-color: var(--bad); }
.preview { border: 1px dashed var(--border); border-radius: 6px; min-height: 200px; padding: 12px; }
.preview .ph-image { background: #eaeef2; border-radius: 4px; padding: 24px; text-align: center; color: #57606a; margin: 4px 0; }
.preview .ph-container { border-left: 3px solid var(--border); padding-left: 8px; color: #57606a; margin: 4px 0; }
.actions { margin-top: 12px; display: flex; gap: 8px; flex-wrap: wrap; }
.content pre { background: #f6f8fa; padding: 12px; border-radius: 6px; overflow-x: auto; }
.content code { font-family: ui-monospace, monospace; font-size: 13px; }
`
