package server

import "html/template"

// pageTemplates 编译整页与各局部模板
func pageTemplates() *template.Template {
	return template.Must(template.New("taskpage").Parse(pageHTML))
}

const pageHTML = `
{{define "page"}}<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Tasks</title>
    <link rel="stylesheet" href="/static/app.css" />
    <script src="https://unpkg.com/htmx.org@1.9.2"></script>
  </head>
  <body>
    <main class="container">
      <header class="header">
        <h1 class="title">Tasks</h1>
        <div id="status" class="status">{{.Status}}</div>
      </header>

      {{if .Error}}<p class="error">{{.Error}}</p>{{end}}

      <form class="addForm" action="/tasks" method="post"
            hx-post="/tasks" hx-target="#tasks" hx-swap="beforeend">
        <input type="text" name="title" placeholder="New task" autocomplete="off" />
        <button type="submit">Add</button>
      </form>

      <form class="searchForm" action="/tasks" method="get"
            hx-get="/tasks/fragment" hx-target="#listing" hx-swap="innerHTML">
        <input type="search" name="q" value="{{.Query}}" placeholder="Search" />
        <button type="submit">Search</button>
      </form>

      <div id="listing">{{template "listing" .}}</div>
    </main>
  </body>
</html>{{end}}

{{define "listing"}}<ul id="tasks" class="tasks">
{{range .Page.Items}}{{if eq .ID $.EditTask.ID}}{{template "editRow" $}}{{else}}{{template "item" .}}{{end}}
{{end}}</ul>
{{template "pager" .}}{{end}}

{{define "item"}}<li class="task" id="task-{{.ID}}">
  <span class="taskTitle">{{.Title}}</span>
  <span class="actions">
    <a class="btn" href="/tasks?edit={{.ID}}"
       hx-get="/tasks/{{.ID}}/edit" hx-target="closest li" hx-swap="outerHTML">Edit</a>
    <form class="inline" action="/tasks/{{.ID}}/delete" method="post"
          hx-post="/tasks/{{.ID}}/delete" hx-target="closest li" hx-swap="outerHTML">
      <button type="submit">Delete</button>
    </form>
  </span>
</li>{{end}}

{{define "editRow"}}<li class="task editing" id="task-{{.EditTask.ID}}">
  <form class="editForm" action="/tasks/{{.EditTask.ID}}/edit" method="post"
        hx-post="/tasks/{{.EditTask.ID}}/edit" hx-target="closest li" hx-swap="outerHTML">
    <input type="text" name="title" value="{{.EditTask.Title}}" autocomplete="off" />
    <button type="submit">Save</button>
    <a class="btn" href="/tasks"
       hx-get="/tasks/{{.EditTask.ID}}/view" hx-target="closest li" hx-swap="outerHTML">Cancel</a>
  </form>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
</li>{{end}}

{{define "pager"}}<nav class="pager">
  {{if .Page.HasPrev}}<a href="/tasks?q={{.Query}}&page={{.Page.Prev}}"
     hx-get="/tasks/fragment?q={{.Query}}&page={{.Page.Prev}}" hx-target="#listing" hx-swap="innerHTML">Prev</a>{{end}}
  <span>Page {{.Page.Number}} of {{.Page.TotalPages}}</span>
  {{if .Page.HasNext}}<a href="/tasks?q={{.Query}}&page={{.Page.Next}}"
     hx-get="/tasks/fragment?q={{.Query}}&page={{.Page.Next}}" hx-target="#listing" hx-swap="innerHTML">Next</a>{{end}}
</nav>{{end}}

{{define "listFragment"}}{{template "listing" .}}
<div id="status" class="status" hx-swap-oob="true">{{.Status}}</div>{{end}}

{{define "itemFragment"}}{{template "item" .Task}}
{{if .Status}}<div id="status" class="status" hx-swap-oob="true">{{.Status}}</div>{{end}}{{end}}

{{define "statusOnly"}}<div id="status" class="status" hx-swap-oob="true">{{.Status}}</div>{{end}}

{{define "error"}}<p class="error">{{.}}</p>{{end}}
`

const appCSS = `
:root{
  --bg: #f4f6fb;
  --panel: #ffffff;
  --text: #111827;
  --muted: #4b5563;
  --line: rgba(17,24,39,0.12);
  --error: #b91c1c;
}
*{box-sizing:border-box}
body{
  margin:0;
  font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif;
  background: var(--bg);
  color: var(--text);
}
.container{max-width:640px; margin:0 auto; padding:32px 20px 60px}
.header{display:flex; align-items:baseline; gap:16px; margin-bottom:18px}
.title{margin:0; font-size:28px}
.status{color:var(--muted); font-size:14px}
.error{color:var(--error); font-size:14px; margin:6px 0}
.addForm, .searchForm{display:flex; gap:8px; margin-bottom:12px}
.addForm input, .searchForm input, .editForm input{
  flex:1; padding:8px 10px; border:1px solid var(--line); border-radius:8px;
}
button, .btn{
  padding:8px 12px; border:1px solid var(--line); border-radius:8px;
  background:var(--panel); color:var(--text); text-decoration:none;
  font-size:14px; cursor:pointer;
}
.tasks{list-style:none; margin:0; padding:0; background:var(--panel);
  border:1px solid var(--line); border-radius:12px; overflow:hidden}
.task{display:flex; align-items:center; justify-content:space-between;
  padding:12px 16px; border-bottom:1px solid var(--line)}
.task:last-child{border-bottom:none}
.task.editing{display:block}
.editForm{display:flex; gap:8px}
.inline{display:inline}
.actions{display:flex; gap:8px; align-items:center}
.pager{display:flex; gap:12px; align-items:center; margin-top:12px; color:var(--muted); font-size:14px}
`
