package drawer

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/mapsocial/mapsocial-go/internal/media"
	"github.com/mapsocial/mapsocial-go/internal/model"
)

// ContentAPI is the slice of the gateway client the drawer needs.
type ContentAPI interface {
	Posts(ctx context.Context, locationID int64) ([]model.Post, error)
	Sessions(ctx context.Context, locationID int64) ([]model.Session, error)
	Comments(ctx context.Context, postID int64) ([]model.Comment, error)
	CreatePost(ctx context.Context, input model.CreatePostRequest) (*model.Post, error)
	CreateComment(ctx context.Context, input model.CreateCommentRequest) (*model.Comment, error)
	CreateSession(ctx context.Context, input model.CreateSessionRequest) (*model.Session, error)
}

// Attachment is an optional binary payload for a post.
type Attachment struct {
	Filename string
	Reader   io.Reader
}

// PostEntry is a post as held by the drawer. Pending marks an optimistic
// entry that has not been confirmed by the server yet.
type PostEntry struct {
	model.Post
	Pending bool
	localID uint64
}

type SessionEntry struct {
	model.Session
	Pending bool
	localID uint64
}

type CommentEntry struct {
	model.Comment
	Pending bool
	localID uint64
}

// Drawer orchestrates the content panel for the active location: the post
// list, the session list, and per-post comment lists loaded on demand.
// Posts and sessions load independently; a failure in one never blocks the
// other, and each side keeps its own error for partial rendering.
//
// Every activation bumps an epoch; a load that finishes after the
// selection has moved on is discarded, so switching locations always shows
// freshly fetched content and never a leftover from the previous one.
type Drawer struct {
	api      ContentAPI
	uploader media.Uploader

	mu             sync.Mutex
	epoch          uint64
	location       *model.Location
	posts          []PostEntry
	postsErr       error
	postsLoaded    bool
	sessions       []SessionEntry
	sessionsErr    error
	sessionsLoaded bool
	comments       map[int64][]CommentEntry
	nextLocal      uint64

	loads sync.WaitGroup
}

func New(client ContentAPI, uploader media.Uploader) *Drawer {
	return &Drawer{
		api:      client,
		uploader: uploader,
		comments: make(map[int64][]CommentEntry),
	}
}

// Activate opens the drawer for loc and kicks off the post and session
// loads concurrently. Any state from a previously active location is
// discarded first.
func (d *Drawer) Activate(ctx context.Context, loc model.Location) {
	d.mu.Lock()
	d.epoch++
	epoch := d.epoch
	l := loc
	d.location = &l
	d.posts = nil
	d.postsErr = nil
	d.postsLoaded = false
	d.sessions = nil
	d.sessionsErr = nil
	d.sessionsLoaded = false
	d.comments = make(map[int64][]CommentEntry)
	d.mu.Unlock()

	d.loads.Add(2)
	go func() {
		defer d.loads.Done()
		posts, err := d.api.Posts(ctx, loc.ID)
		d.mu.Lock()
		defer d.mu.Unlock()
		if epoch != d.epoch {
			return
		}
		if err != nil {
			d.postsErr = errors.Wrap(err, "load posts")
			d.postsLoaded = true
			log.Printf("[Drawer]: posts load failed for location %d: %v", loc.ID, err)
			return
		}
		entries := make([]PostEntry, len(posts))
		for i, p := range posts {
			entries[i] = PostEntry{Post: p}
		}
		d.posts = entries
		d.postsLoaded = true
	}()
	go func() {
		defer d.loads.Done()
		sessions, err := d.api.Sessions(ctx, loc.ID)
		d.mu.Lock()
		defer d.mu.Unlock()
		if epoch != d.epoch {
			return
		}
		if err != nil {
			d.sessionsErr = errors.Wrap(err, "load sessions")
			d.sessionsLoaded = true
			log.Printf("[Drawer]: sessions load failed for location %d: %v", loc.ID, err)
			return
		}
		entries := make([]SessionEntry, len(sessions))
		for i, s := range sessions {
			entries[i] = SessionEntry{Session: s}
		}
		d.sessions = entries
		d.sessionsLoaded = true
	}()
}

// Close discards all drawer state.
func (d *Drawer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.epoch++
	d.location = nil
	d.posts = nil
	d.postsErr = nil
	d.postsLoaded = false
	d.sessions = nil
	d.sessionsErr = nil
	d.sessionsLoaded = false
	d.comments = make(map[int64][]CommentEntry)
}

// WaitLoaded blocks until all in-flight activation loads have settled.
func (d *Drawer) WaitLoaded() {
	d.loads.Wait()
}

// Location returns the location the drawer is open for, if any.
func (d *Drawer) Location() (model.Location, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.location == nil {
		return model.Location{}, false
	}
	return *d.location, true
}

// Posts returns the held post list (newest first) and the load error, if
// the load has settled with one.
func (d *Drawer) Posts() ([]PostEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]PostEntry, len(d.posts))
	copy(out, d.posts)
	return out, d.postsErr
}

// Sessions returns the held session list and its load error.
func (d *Drawer) Sessions() ([]SessionEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]SessionEntry, len(d.sessions))
	copy(out, d.sessions)
	return out, d.sessionsErr
}

// Comments returns the held comment list for a post. The second result is
// false until LoadComments has been called for that post.
func (d *Drawer) Comments(postID int64) ([]CommentEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries, ok := d.comments[postID]
	out := make([]CommentEntry, len(entries))
	copy(out, entries)
	return out, ok
}

// SubmitPost creates a post on the active location. When an attachment is
// present it is uploaded first and the create call only goes out once the
// upload has resolved to a URL. The post is applied optimistically: a
// pending entry is prepended immediately, replaced by the server record on
// success, rolled back on failure.
func (d *Drawer) SubmitPost(ctx context.Context, content string, tags *string, attachment *Attachment) (*model.Post, error) {
	d.mu.Lock()
	if d.location == nil {
		d.mu.Unlock()
		return nil, errors.New("no active location")
	}
	loc := *d.location
	epoch := d.epoch
	d.mu.Unlock()

	var photoURL *string
	if attachment != nil {
		url, err := d.uploader.Upload(ctx, attachment.Filename, attachment.Reader)
		if err != nil {
			return nil, errors.Wrap(err, "upload attachment")
		}
		photoURL = &url
	}

	localID := d.addPendingPost(epoch, loc.ID, content, tags, photoURL)

	post, err := d.api.CreatePost(ctx, model.CreatePostRequest{
		LocationID: loc.ID,
		Content:    content,
		PhotoURL:   photoURL,
		Tags:       tags,
	})
	if err != nil {
		d.dropPendingPost(localID)
		return nil, err
	}

	d.mu.Lock()
	if epoch == d.epoch {
		for i := range d.posts {
			if d.posts[i].Pending && d.posts[i].localID == localID {
				d.posts[i] = PostEntry{Post: *post}
				break
			}
		}
	}
	d.mu.Unlock()
	return post, nil
}

func (d *Drawer) addPendingPost(epoch uint64, locationID int64, content string, tags, photoURL *string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextLocal++
	localID := d.nextLocal
	if epoch != d.epoch {
		return localID
	}
	entry := PostEntry{
		Post: model.Post{
			LocationID: locationID,
			Content:    content,
			PhotoURL:   photoURL,
			Tags:       tags,
		},
		Pending: true,
		localID: localID,
	}
	// Newest first, matching server order.
	d.posts = append([]PostEntry{entry}, d.posts...)
	return localID
}

func (d *Drawer) dropPendingPost(localID uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.posts {
		if d.posts[i].Pending && d.posts[i].localID == localID {
			d.posts = append(d.posts[:i], d.posts[i+1:]...)
			return
		}
	}
}

// LoadComments fetches the comment list for a post and replaces whatever
// was held for it. Calling it again is a plain refetch, not a merge. Other
// posts' lists are untouched.
func (d *Drawer) LoadComments(ctx context.Context, postID int64) error {
	d.mu.Lock()
	epoch := d.epoch
	d.mu.Unlock()

	comments, err := d.api.Comments(ctx, postID)
	if err != nil {
		return errors.Wrap(err, "load comments")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if epoch != d.epoch {
		return nil
	}
	entries := make([]CommentEntry, len(comments))
	for i, c := range comments {
		entries[i] = CommentEntry{Comment: c}
	}
	d.comments[postID] = entries
	return nil
}

// AddComment creates a comment on a post, appending optimistically to that
// post's held list: the server's timestamp is expected to sort after every
// existing entry, so append order is insertion order.
func (d *Drawer) AddComment(ctx context.Context, postID int64, content string) (*model.Comment, error) {
	d.mu.Lock()
	epoch := d.epoch
	d.nextLocal++
	localID := d.nextLocal
	d.comments[postID] = append(d.comments[postID], CommentEntry{
		Comment: model.Comment{PostID: postID, Content: content},
		Pending: true,
		localID: localID,
	})
	d.mu.Unlock()

	comment, err := d.api.CreateComment(ctx, model.CreateCommentRequest{
		PostID:  postID,
		Content: content,
	})

	d.mu.Lock()
	defer d.mu.Unlock()
	if epoch != d.epoch {
		if err != nil {
			return nil, err
		}
		return comment, nil
	}
	entries := d.comments[postID]
	for i := range entries {
		if entries[i].Pending && entries[i].localID == localID {
			if err != nil {
				d.comments[postID] = append(entries[:i], entries[i+1:]...)
			} else {
				entries[i] = CommentEntry{Comment: *comment}
			}
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateSession schedules a session on the active location, appending
// optimistically. A nil MaxPeople never reaches the wire; the server is
// authoritative on the start/end ordering.
func (d *Drawer) CreateSession(ctx context.Context, input model.CreateSessionRequest) (*model.Session, error) {
	d.mu.Lock()
	if d.location == nil {
		d.mu.Unlock()
		return nil, errors.New("no active location")
	}
	input.LocationID = d.location.ID
	epoch := d.epoch
	d.nextLocal++
	localID := d.nextLocal
	d.sessions = append(d.sessions, SessionEntry{
		Session: model.Session{
			LocationID: input.LocationID,
			Title:      input.Title,
			Activity:   input.Activity,
			StartsAt:   input.StartsAt,
			EndsAt:     input.EndsAt,
			MaxPeople:  input.MaxPeople,
			Notes:      input.Notes,
		},
		Pending: true,
		localID: localID,
	})
	d.mu.Unlock()

	sess, err := d.api.CreateSession(ctx, input)

	d.mu.Lock()
	defer d.mu.Unlock()
	if epoch == d.epoch {
		for i := range d.sessions {
			if d.sessions[i].Pending && d.sessions[i].localID == localID {
				if err != nil {
					d.sessions = append(d.sessions[:i], d.sessions[i+1:]...)
				} else {
					d.sessions[i] = SessionEntry{Session: *sess}
				}
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}
