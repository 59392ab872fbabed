package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleUI(c echo.Context) error {
	return c.HTML(http.StatusOK, catalogHTML)
}

// catalogHTML is the single-page catalog editor. It lists and filters
// movies, submits the form to the movies API and follows /ws for changes
// made elsewhere.
const catalogHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Marquee</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-bar {
    display: flex; gap: 20px; margin-bottom: 20px; padding: 12px 16px;
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
  }
  .status-item { display: flex; flex-direction: column; }
  .status-label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  .status-value { font-size: 1.1em; font-weight: 600; }
  .status-value.connected { color: #3fb950; }
  .status-value.disconnected { color: #f85149; }
  .layout { display: grid; grid-template-columns: 1fr 320px; gap: 16px; }
  .panel {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    max-height: 600px; overflow-y: auto;
  }
  .panel-header {
    padding: 12px 16px; border-bottom: 1px solid #30363d;
    font-weight: 600; color: #58a6ff; position: sticky; top: 0;
    background: #161b22; display: flex; justify-content: space-between; gap: 8px;
  }
  table { width: 100%; border-collapse: collapse; font-size: 0.85em; }
  td, th { padding: 6px 12px; border-bottom: 1px solid #21262d; text-align: left; }
  th { color: #8b949e; font-weight: 500; }
  tr.movie:hover { background: #1c2128; cursor: pointer; }
  tr.selected { background: #1f2a37; }
  form { padding: 16px; display: flex; flex-direction: column; gap: 10px; }
  label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  input, select {
    width: 100%; background: #0d1117; color: #c9d1d9; border: 1px solid #30363d;
    border-radius: 4px; padding: 6px 8px; font-family: inherit;
  }
  button {
    background: #21262d; color: #c9d1d9; border: 1px solid #30363d;
    padding: 6px 12px; border-radius: 4px; cursor: pointer; font-size: 0.85em;
  }
  button:hover { background: #30363d; }
  button.primary { background: #238636; border-color: #2ea043; }
  button.danger { background: #3d1f20; color: #f85149; }
  .buttons { display: flex; gap: 8px; }
  #message { min-height: 1.2em; font-size: 0.85em; color: #f85149; }
  #feed { font-size: 0.8em; color: #8b949e; padding: 8px 16px; }
</style>
</head>
<body>
<h1>Marquee</h1>
<p class="subtitle">Movie and TV show catalog</p>

<div class="status-bar">
  <div class="status-item">
    <span class="status-label">Live feed</span>
    <span class="status-value disconnected" id="conn-status">Disconnected</span>
  </div>
  <div class="status-item">
    <span class="status-label">Titles</span>
    <span class="status-value" id="count">0</span>
  </div>
  <div class="status-item">
    <span class="status-label">Last change</span>
    <span class="status-value" id="last-change">-</span>
  </div>
</div>

<div class="layout">
  <div class="panel">
    <div class="panel-header">
      <input id="filter" placeholder="Filter by title..." oninput="scheduleLoad()">
      <button onclick="newMovie()">Add movie</button>
    </div>
    <table>
      <thead><tr><th>Title</th><th>Director</th><th>Type</th><th>Countries</th><th>Year</th><th>Runtime</th></tr></thead>
      <tbody id="movies"></tbody>
    </table>
  </div>

  <div class="panel">
    <div class="panel-header"><span id="form-title">New movie</span></div>
    <form id="form" onsubmit="save(event)">
      <input type="hidden" id="id">
      <div><label for="title">Title</label><input id="title" required></div>
      <div><label for="director">Director</label><input id="director"></div>
      <div><label for="type">Type</label><select id="type"></select></div>
      <div><label for="countries">Countries</label><input id="countries"></div>
      <div><label for="releaseYear">Release year</label><input id="releaseYear" type="number" min="1800" max="3000"></div>
      <div><label for="runtime">Runtime (MM:SS or HH:MM:SS)</label><input id="runtime"></div>
      <div class="buttons">
        <button class="primary" type="submit">Save</button>
        <button class="danger" type="button" id="delete" onclick="remove()">Delete</button>
        <button type="button" onclick="newMovie()">Cancel</button>
      </div>
      <div id="message"></div>
    </form>
    <div id="feed"></div>
  </div>
</div>

<script>
const api = '/api/v1';
let movies = [];
let loadTimer = null;

async function call(method, path, body) {
  const opts = { method, headers: {} };
  if (body !== undefined) {
    opts.headers['Content-Type'] = 'application/json';
    opts.body = JSON.stringify(body);
  }
  const res = await fetch(api + path, opts);
  if (res.status === 204) return null;
  const data = await res.json();
  if (!res.ok) throw new Error(data.message || res.statusText);
  return data;
}

function scheduleLoad() {
  clearTimeout(loadTimer);
  loadTimer = setTimeout(load, 200);
}

async function load() {
  const title = document.getElementById('filter').value.trim();
  const path = title ? '/movies/search?titleContains=' + encodeURIComponent(title) : '/movies';
  movies = await call('GET', path);
  render();
}

async function loadTypes() {
  const types = await call('GET', '/types');
  const sel = document.getElementById('type');
  sel.innerHTML = '';
  for (const t of types) {
    const opt = document.createElement('option');
    opt.value = t.type;
    opt.textContent = t.type;
    sel.appendChild(opt);
  }
}

function render() {
  const body = document.getElementById('movies');
  const selected = document.getElementById('id').value;
  body.innerHTML = '';
  for (const m of movies) {
    const row = document.createElement('tr');
    row.className = 'movie' + (String(m.id) === selected ? ' selected' : '');
    row.onclick = () => edit(m);
    for (const v of [m.title, m.director, m.type, m.countries, m.releaseYear || '', m.runtime || '']) {
      const td = document.createElement('td');
      td.textContent = v;
      row.appendChild(td);
    }
    body.appendChild(row);
  }
  document.getElementById('count').textContent = movies.length;
}

function field(name) { return document.getElementById(name); }

function edit(m) {
  field('form-title').textContent = 'Edit movie';
  field('id').value = m.id;
  for (const k of ['title', 'director', 'type', 'countries', 'releaseYear', 'runtime']) {
    field(k).value = m[k] || '';
  }
  field('delete').disabled = false;
  field('message').textContent = '';
  render();
}

function newMovie() {
  field('form').reset();
  field('id').value = '';
  field('form-title').textContent = 'New movie';
  field('delete').disabled = true;
  field('message').textContent = '';
  render();
}

async function save(ev) {
  ev.preventDefault();
  const m = {
    title: field('title').value,
    director: field('director').value,
    type: field('type').value,
    countries: field('countries').value,
    releaseYear: parseInt(field('releaseYear').value || '0', 10),
  };
  if (field('runtime').value) m.runtime = field('runtime').value;
  try {
    const id = field('id').value;
    const saved = id ? await call('PUT', '/movies/' + id, m) : await call('POST', '/movies', m);
    edit(saved);
    await load();
  } catch (e) {
    field('message').textContent = e.message;
  }
}

async function remove() {
  const id = field('id').value;
  if (!id) return;
  try {
    await call('DELETE', '/movies/' + id);
    newMovie();
    await load();
  } catch (e) {
    field('message').textContent = e.message;
  }
}

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws');
  const status = field('conn-status');
  ws.onopen = () => { status.textContent = 'Connected'; status.className = 'status-value connected'; };
  ws.onclose = () => {
    status.textContent = 'Disconnected';
    status.className = 'status-value disconnected';
    setTimeout(connect, 2000);
  };
  ws.onmessage = (e) => {
    const ev = JSON.parse(e.data);
    const subject = ev.movie ? ev.movie.title : (ev.type ? ev.type.type : '');
    field('last-change').textContent = ev.kind + ' ' + ev.entity;
    field('feed').textContent = new Date(ev.time).toLocaleTimeString() + ' ' + ev.kind + ' ' + ev.entity + ' ' + subject;
    if (ev.entity === 'type') loadTypes();
    scheduleLoad();
  };
}

loadTypes().then(load);
newMovie();
connect();
</script>
</body>
</html>`
