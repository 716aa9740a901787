package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/haruka/kaori/internal/middleware"
)

// loginPageTemplate は管理者ログインページ。
// インラインのスクリプト・スタイルにはゲートキーパーが生成した
// CSPノンスを必ず付与する。
var loginPageTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>管理者ログイン | kaori</title>
<style nonce="{{.Nonce}}">
body { font-family: sans-serif; max-width: 24rem; margin: 4rem auto; padding: 0 1rem; }
label { display: block; margin-top: 1rem; }
input { width: 100%; padding: 0.5rem; margin-top: 0.25rem; }
button { margin-top: 1.5rem; padding: 0.5rem 1.5rem; }
.error { color: #b00020; margin-top: 1rem; }
</style>
</head>
<body>
<h1>管理者ログイン</h1>
<form id="login-form">
  <label>ユーザー名 <input type="text" name="username" autocomplete="username" required></label>
  <label>パスワード <input type="password" name="password" autocomplete="current-password" required></label>
  <button type="submit">ログイン</button>
  <p class="error" id="error" hidden>ユーザー名またはパスワードが正しくありません。</p>
</form>
<script nonce="{{.Nonce}}">
document.getElementById('login-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const form = new FormData(e.target);
  const resp = await fetch('/api/admin/auth', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ username: form.get('username'), password: form.get('password') }),
  });
  if (resp.ok) {
    const params = new URLSearchParams(location.search);
    location.href = params.get('from') || '/admin';
  } else {
    document.getElementById('error').hidden = false;
  }
});
</script>
</body>
</html>
`))

// adminPageTemplate は管理トップページ。ゲートキーパー通過後にのみ到達する。
var adminPageTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>管理画面 | kaori</title>
<style nonce="{{.Nonce}}">
body { font-family: sans-serif; max-width: 48rem; margin: 4rem auto; padding: 0 1rem; }
</style>
</head>
<body>
<h1>管理画面</h1>
<ul>
  <li><a href="/api/admin/posts">記事管理API</a></li>
  <li><a href="/api/admin/houses">ブランド管理API</a></li>
  <li><a href="/api/admin/fragrances">香水管理API</a></li>
</ul>
<script nonce="{{.Nonce}}">
document.querySelectorAll('a').forEach((a) => a.setAttribute('rel', 'nofollow'));
</script>
</body>
</html>
`))

// pageData はページテンプレートの描画コンテキスト。
type pageData struct {
	Nonce string
}

// PageHandler は管理画面の最小限のHTMLページを提供する。
type PageHandler struct{}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// LoginPage はログインページを描画する。
// GET /admin/login
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, loginPageTemplate)
}

// AdminPage は管理トップページを描画する。
// GET /admin
func (h *PageHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, adminPageTemplate)
}

// renderPage はコンテキストのCSPノンスを渡してテンプレートを描画する。
func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, tmpl *template.Template) {
	nonce, err := middleware.CSPNonceFromContext(r.Context())
	if err != nil {
		slog.Error("CSP nonce missing from request context", slog.String("path", r.URL.Path))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, pageData{Nonce: nonce}); err != nil {
		slog.Error("failed to render page", slog.String("error", err.Error()))
	}
}
