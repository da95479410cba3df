package webdrivertest

import (
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
)

var homePage = `
<html>
<head>
	<title>Step Definitions Test Suite</title>
</head>
<body>
	<h1 id="welcome">Welcome to the test suite</h1>
	<p id="hidden" style="display: none">Hidden text</p>
	<a href="/form">Go to the form</a>
	<a href="/other" id="other-link">The <b>other</b> page</a>
	<a href="/alert">Alerts</a>
	<a href="/frame">Frames</a>
	<span title="Help text">?</span>
	<button data-original-title="Refresh" onclick="document.getElementById('welcome').innerText = 'Refreshed'">R</button>
</body>
</html>
`

var otherPage = `
<html>
<head>
	<title>Step Definitions Test Suite - Other Page</title>
</head>
<body>
	The other page.
</body>
</html>
`

var formPage = `
<html>
<head>
	<title>Step Definitions Test Suite - Form Page</title>
</head>
<body>
	<form id="signup" action="/submit" method="get">
		<label for="name">Your name</label>
		<input type="text" id="name" name="name" />

		<input type="email" name="email" placeholder="you@example.com" />

		<label for="born">Birthday</label>
		<input type="date" id="born" name="born" />

		<label for="bio">About you</label>
		<textarea id="bio" name="bio"></textarea>

		<label for="terms">Accept the terms</label>
		<input type="checkbox" id="terms" name="terms" />
		<input type="checkbox" id="news" name="news" checked />

		<input type="radio" id="plan-free" name="plan" value="free" checked />
		<label for="plan-free">Free plan</label>
		<input type="radio" id="plan-paid" name="plan" value="paid" />
		<label for="plan-paid">Paid plan</label>

		<label for="color">Favorite color</label>
		<select id="color" name="color">
			<option value="red">Red</option>
			<option value="green">Green</option>
			<option value="blue">Blue</option>
		</select>

		<label for="toppings">Toppings</label>
		<select id="toppings" name="toppings" multiple>
			<option value="cheese" selected>Cheese</option>
			<option value="ham">Ham</option>
			<option value="olives">Black olives</option>
		</select>

		<input type="submit" id="save" name="save" value="Save" />
		<button type="button" id="reveal" onclick="setTimeout(function() { document.getElementById('later').style.display = 'block'; }, 1000)">Reveal later</button>
	</form>
	<div id="later" style="display: none">Revealed</div>
</body>
</html>
`

var submitPage = `
<html>
<head>
	<title>Step Definitions Test Suite - Submitted</title>
</head>
<body>
	<h1>Submitted</h1>
	<dl>
%s
	</dl>
</body>
</html>
`

var alertPage = `
<html>
<head>
	<title>Step Definitions Test Suite - Alert Page</title>
</head>
<body>
	<button id="alert" onclick="alert('Hello world')">Alert me</button>
</body>
</html>
`

var framePage = `
<html>
<head>
	<title>Step Definitions Test Suite - Frame Page</title>
</head>
<body>
	This page contains a frame.

	<iframe id="inner" name="inner" src="/other"></iframe>
	<div id="outside">Outside of the frame</div>
</body>
</html>
`

var focusPage = `
<html>
<head>
	<title>Step Definitions Test Suite - Focus Page</title>
</head>
<body>
	<input id="first" autofocus />
	<input id="second" />
</body>
</html>
`

// Handler serves the fixture pages used by the feature files.
var Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	page, ok := map[string]string{
		"/":       homePage,
		"/other":  otherPage,
		"/form":   formPage,
		"/submit": submitPage,
		"/alert":  alertPage,
		"/frame":  framePage,
		"/focus":  focusPage,
	}[path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if path == "/submit" {
		r.ParseForm()
		keys := make([]string, 0, len(r.Form))
		for k := range r.Form {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var items []string
		for _, k := range keys {
			items = append(items, fmt.Sprintf("\t\t<dt>%s</dt><dd id=%q>%s</dd>",
				html.EscapeString(k), "value-"+k, html.EscapeString(strings.Join(r.Form[k], ","))))
		}
		page = fmt.Sprintf(page, strings.Join(items, "\n"))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
})
