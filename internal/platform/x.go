// Package platform holds the X (Twitter) API client. Tweets and mentions go
// through API v2; media upload still only exists on the v1.1 endpoint.
package platform

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "mime/multipart"
    "net/http"
    "net/url"
    "strconv"

    "github.com/dghubble/oauth1"
)

const (
    apiBase    = "https://api.twitter.com"
    uploadBase = "https://upload.twitter.com"
)

// Mention is one inbound tweet mentioning the authenticated account.
type Mention struct {
    ID             string
    AuthorUsername string
    Text           string
}

type XClient struct {
    http       *http.Client
    apiBase    string
    uploadBase string
    userID     string // cached result of /2/users/me
}

// NewXClient builds a client with OAuth1 user-context signing, the same auth mode
// the posting and mentions endpoints require.
func NewXClient(apiKey, apiSecret, accessToken, accessSecret string) *XClient {
    config := oauth1.NewConfig(apiKey, apiSecret)
    token := oauth1.NewToken(accessToken, accessSecret)
    return &XClient{
        http:       config.Client(oauth1.NoContext, token),
        apiBase:    apiBase,
        uploadBase: uploadBase,
    }
}

// CreatePost publishes a tweet, optionally attaching a previously uploaded media id,
// and returns the new tweet id.
func (c *XClient) CreatePost(ctx context.Context, text, mediaID string) (string, error) {
    payload := map[string]interface{}{"text": text}
    if mediaID != "" {
        payload["media"] = map[string]interface{}{"media_ids": []string{mediaID}}
    }
    return c.postTweet(ctx, payload)
}

// CreateReply publishes a reply to parentID and returns the reply tweet id.
func (c *XClient) CreateReply(ctx context.Context, parentID, text string) (string, error) {
    payload := map[string]interface{}{
        "text":  text,
        "reply": map[string]interface{}{"in_reply_to_tweet_id": parentID},
    }
    return c.postTweet(ctx, payload)
}

func (c *XClient) postTweet(ctx context.Context, payload map[string]interface{}) (string, error) {
    body, err := json.Marshal(payload)
    if err != nil {
        return "", err
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/2/tweets", bytes.NewReader(body))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")

    var resp struct {
        Data struct {
            ID string `json:"id"`
        } `json:"data"`
    }
    if err := c.do(req, &resp); err != nil {
        return "", err
    }
    if resp.Data.ID == "" {
        return "", fmt.Errorf("tweet created but no id in response")
    }
    return resp.Data.ID, nil
}

// UploadMedia pushes raw image bytes through the v1.1 media endpoint and returns the
// media id to attach to a tweet.
func (c *XClient) UploadMedia(ctx context.Context, media []byte) (string, error) {
    var buf bytes.Buffer
    writer := multipart.NewWriter(&buf)
    part, err := writer.CreateFormFile("media", "media")
    if err != nil {
        return "", err
    }
    if _, err := part.Write(media); err != nil {
        return "", err
    }
    if err := writer.Close(); err != nil {
        return "", err
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBase+"/1.1/media/upload.json", &buf)
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", writer.FormDataContentType())

    var resp struct {
        MediaIDString string `json:"media_id_string"`
    }
    if err := c.do(req, &resp); err != nil {
        return "", err
    }
    if resp.MediaIDString == "" {
        return "", fmt.Errorf("media uploaded but no media_id in response")
    }
    return resp.MediaIDString, nil
}

// FetchMentions returns up to limit most-recent mentions of the authenticated user.
// The API floor for max_results is 5, so small limits are bumped on the wire and
// trimmed here.
func (c *XClient) FetchMentions(ctx context.Context, limit int) ([]Mention, error) {
    userID, err := c.authenticatedUserID(ctx)
    if err != nil {
        return nil, err
    }

    maxResults := limit
    if maxResults < 5 {
        maxResults = 5
    }
    if maxResults > 100 {
        maxResults = 100
    }

    params := url.Values{}
    params.Set("max_results", strconv.Itoa(maxResults))
    params.Set("expansions", "author_id")
    params.Set("user.fields", "username")

    endpoint := fmt.Sprintf("%s/2/users/%s/mentions?%s", c.apiBase, userID, params.Encode())
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
    if err != nil {
        return nil, err
    }

    var resp struct {
        Data []struct {
            ID       string `json:"id"`
            AuthorID string `json:"author_id"`
            Text     string `json:"text"`
        } `json:"data"`
        Includes struct {
            Users []struct {
                ID       string `json:"id"`
                Username string `json:"username"`
            } `json:"users"`
        } `json:"includes"`
    }
    if err := c.do(req, &resp); err != nil {
        return nil, err
    }

    usernames := map[string]string{}
    for _, u := range resp.Includes.Users {
        usernames[u.ID] = u.Username
    }

    mentions := []Mention{}
    for _, t := range resp.Data {
        if len(mentions) >= limit {
            break
        }
        mentions = append(mentions, Mention{
            ID:             t.ID,
            AuthorUsername: usernames[t.AuthorID],
            Text:           t.Text,
        })
    }
    return mentions, nil
}

func (c *XClient) authenticatedUserID(ctx context.Context) (string, error) {
    if c.userID != "" {
        return c.userID, nil
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/2/users/me", nil)
    if err != nil {
        return "", err
    }

    var resp struct {
        Data struct {
            ID string `json:"id"`
        } `json:"data"`
    }
    if err := c.do(req, &resp); err != nil {
        return "", err
    }
    if resp.Data.ID == "" {
        return "", fmt.Errorf("could not resolve authenticated user id")
    }
    c.userID = resp.Data.ID
    return c.userID, nil
}

func (c *XClient) do(req *http.Request, out interface{}) error {
    resp, err := c.http.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
    if err != nil {
        return err
    }

    // Rate limits and transient 5xx are indistinguishable to the pipelines; both
    // come back as plain errors and the retry wrapper handles them uniformly.
    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        return fmt.Errorf("x api %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(body))
    }

    if out != nil {
        if err := json.Unmarshal(body, out); err != nil {
            return fmt.Errorf("x api %s %s: bad response body: %w", req.Method, req.URL.Path, err)
        }
    }
    return nil
}
