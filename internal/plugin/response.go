package plugin

// Response is the closed set of shapes a DataPlugin can return. The
// dispatcher serializes whichever shape comes back without knowing the
// concrete provider type; the unexported marker keeps the set sealed so
// a new shape can only be added here, next to its request type.
type Response interface {
	isResponse()
}

// UserResponse is the profile shape returned for the "user" request type.
type UserResponse struct {
	Name     string            `json:"name,omitempty"`
	Avatar   string            `json:"avatar"`
	Bio      string            `json:"bio,omitempty"`
	Location string            `json:"location,omitempty"`
	Email    string            `json:"email,omitempty"`
	Links    map[string]string `json:"links"`
	Blog     string            `json:"blog,omitempty"`
	Company  string            `json:"company,omitempty"`
}

// Repo carries the repository stats attached to a project, present only
// when the backing repository is public.
type Repo struct {
	URL      string `json:"url"`
	Stars    int    `json:"stars"`
	Forks    int    `json:"forks"`
	Watchers int    `json:"watchers"`
	Issues   int    `json:"issues"`
}

// ProjectResponse is one entry in the "projects" response.
type ProjectResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Repo        *Repo    `json:"repo,omitempty"`
	Tags        []string `json:"tags"`
	Languages   []string `json:"languages,omitempty"`
}

// ProjectsResponse is an ordered sequence of project entries.
type ProjectsResponse []ProjectResponse

// PostResponse is one entry in the "posts" response.
type PostResponse struct {
	Number       int      `json:"number"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	OriginalLink string   `json:"original_link"`
}

// PostsResponse is an ordered sequence of post entries.
type PostsResponse []PostResponse

// BlurbResponse is the short free-text shape for the "blurb" request type.
type BlurbResponse struct {
	Blurb string `json:"blurb"`
}

func (UserResponse) isResponse()     {}
func (ProjectsResponse) isResponse() {}
func (PostsResponse) isResponse()    {}
func (BlurbResponse) isResponse()    {}
