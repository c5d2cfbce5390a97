package service

import (
	"html/template"
	"io"

	"github.com/ludo-technologies/pmdview/domain"
)

// HTMLData represents the data for HTML template
type HTMLData struct {
	Table           domain.Table
	Meta            domain.TableMeta
	TotalViolations int
}

var htmlFuncMap = template.FuncMap{
	// ariaSort returns the aria-sort value of a header given the last sort
	"ariaSort": func(col domain.Column, last *domain.SortApplied) string {
		if last == nil || last.Column != col {
			return "none"
		}
		return string(last.Direction)
	},
	"nextDirection": func(col domain.Column, meta domain.TableMeta) string {
		return string(meta.NextDirection(col))
	},
	"cell": func(row domain.Row, col domain.Column) string {
		return row.Cell(col)
	},
}

var tableTemplate = template.Must(template.New("table").Funcs(htmlFuncMap).Parse(htmlTemplate))

// WriteHTML writes the table as a standalone HTML page. Every header cell
// carries its column id and next sort direction, and every row its
// position in the report, so the page can re-sort rows in place the same
// way the session does.
func (f *OutputFormatterImpl) WriteHTML(table domain.Table, meta domain.TableMeta, writer io.Writer) error {
	data := HTMLData{
		Table:           table,
		Meta:            meta,
		TotalViolations: len(table.Rows),
	}
	return tableTemplate.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Table.Title}} - pmdview</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.5;
            color: #333;
            background: #f4f5f7;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header {
            background: white;
            border-radius: 8px;
            padding: 24px;
            margin-bottom: 20px;
            box-shadow: 0 4px 12px rgba(0,0,0,0.08);
        }
        .header h1 { color: #3f51b5; margin-bottom: 8px; }
        .header .subtitle { color: #666; font-size: 14px; }
        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
            box-shadow: 0 4px 12px rgba(0,0,0,0.08);
        }
        th, td { padding: 8px 12px; text-align: left; border-bottom: 1px solid #e0e0e0; vertical-align: top; }
        th { background: #3f51b5; color: white; cursor: pointer; user-select: none; }
        th[aria-sort="ascending"]::after { content: " \25B2"; }
        th[aria-sort="descending"]::after { content: " \25BC"; }
        td.lineNumber { text-align: right; font-variant-numeric: tabular-nums; }
        td.description { white-space: pre-wrap; }
        tr:hover td { background: #f5f7ff; }
        .file { color: #888; font-size: 12px; }
        .empty { padding: 24px; text-align: center; color: #666; background: white; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>{{.Table.Title}}</h1>
        <div class="subtitle">
            {{if .Meta.Source}}Report: {{.Meta.Source}} &middot; {{end}}Files: {{.Meta.TotalFiles}} &middot; Violations: {{.TotalViolations}}
        </div>
        <div class="subtitle">Generated {{.Meta.GeneratedAt}} by pmdview {{.Meta.Version}}</div>
    </div>
    <table id="violations" data-session="{{.Meta.SessionID}}">
        <thead>
            <tr>
                {{- $meta := .Meta}}
                {{- range .Table.Columns}}
                <th id="{{.ID}}" data-sort-column="{{.ID}}" data-next-direction="{{nextDirection .ID $meta}}" aria-sort="{{ariaSort .ID $meta.LastSort}}">{{.Label}}</th>
                {{- end}}
            </tr>
        </thead>
        <tbody>
            {{- $columns := .Table.Columns}}
            {{- range .Table.Rows}}
            {{- $row := .}}
            <tr data-index="{{.Index}}" data-file="{{.FileName}}">
                {{- range $columns}}
                <td class="{{.ID}}" data-value="{{cell $row .ID}}">{{cell $row .ID}}{{if eq .ID "className"}}<div class="file">{{$row.FileName}}</div>{{end}}</td>
                {{- end}}
            </tr>
            {{- end}}
        </tbody>
    </table>
    {{- if not .Table.Rows}}
    <div class="empty">No violations found.</div>
    {{- end}}
</div>
<script>
(function () {
    var table = document.getElementById("violations");
    var body = table.tBodies[0];
    var base = Array.prototype.slice.call(body.rows).sort(function (a, b) {
        return Number(a.dataset.index) - Number(b.dataset.index);
    });
    var nextDescending = {};
    var collator = new Intl.Collator(document.documentElement.lang);
    var headers = table.tHead.rows[0].cells;
    var text = function (row, index) {
        return row.cells[index].dataset.value || "";
    };
    Array.prototype.forEach.call(headers, function (th) {
        nextDescending[th.dataset.sortColumn] = th.dataset.nextDirection === "descending";
    });
    Array.prototype.forEach.call(headers, function (th, index) {
        th.addEventListener("click", function () {
            var column = th.dataset.sortColumn;
            var descending = !!nextDescending[column];
            var compare = column === "lineNumber"
                ? function (a, b) { return Number(text(a, index)) - Number(text(b, index)); }
                : function (a, b) { return collator.compare(text(a, index), text(b, index)); };
            var sorted = base.slice().sort(descending ? function (a, b) { return compare(b, a); } : compare);
            sorted.forEach(function (row) { body.appendChild(row); });
            nextDescending[column] = !descending;
            Array.prototype.forEach.call(headers, function (h) { h.setAttribute("aria-sort", "none"); });
            th.setAttribute("aria-sort", descending ? "descending" : "ascending");
        });
    });
})();
</script>
</body>
</html>
`
