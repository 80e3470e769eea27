// DTOs mapping the GitHub REST API responses the crawler consumes.

package githubapi

// User is the summary shape returned by the /users listing endpoint.
type User struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	HtmlUrl string `json:"html_url"`
	Type    string `json:"type"`
}

// UserDetail is the full profile returned by /users/{login}.
type UserDetail struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Location  string `json:"location"`
	Company   string `json:"company"`
	Blog      string `json:"blog"`
	HtmlUrl   string `json:"html_url"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

type RepoResponse struct {
	Name string `json:"name"`
}

type CommitResponse struct {
	SHA          string       `json:"sha"`
	Commit       CommitDetail `json:"commit"`
	Verification Verification `json:"verification"`
}

type CommitDetail struct {
	Message string       `json:"message"`
	Author  CommitAuthor `json:"author"`
}

type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Verification carries the signature payload of a signed commit. The raw
// payload embeds the author's UTC offset.
type Verification struct {
	Verified bool   `json:"verified"`
	Payload  string `json:"payload"`
}
