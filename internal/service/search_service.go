package service

import (
	"encoding/json"
	"fmt"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"
)

const memberIndex = "members"

// MemberSearch indexes the member directory for full-text search.
type MemberSearch interface {
	IndexMember(user *model.User) error
	RemoveMember(id string) error
	Search(query string, limit int) ([]uuid.UUID, error)
	ReindexAll(users []model.User) (int, error)
}

type meiliMemberSearch struct {
	client meilisearch.ServiceManager
}

type meiliMemberDoc struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Village     string `json:"village"`
	District    string `json:"district"`
	NativePlace string `json:"native_place"`
}

func NewMeiliMemberSearch(client meilisearch.ServiceManager) MemberSearch {
	s := &meiliMemberSearch{client: client}
	s.initIndex()
	return s
}

func (s *meiliMemberSearch) initIndex() {
	searchable := []string{"full_name", "email", "village", "district", "native_place"}
	if _, err := s.client.Index(memberIndex).UpdateSearchableAttributes(&searchable); err != nil {
		logrus.WithError(err).Warn("failed to update member searchable attributes")
	}
}

func (s *meiliMemberSearch) IndexMember(user *model.User) error {
	doc := memberDoc(user)
	_, err := s.client.Index(memberIndex).AddDocuments([]meiliMemberDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliMemberSearch) RemoveMember(id string) error {
	_, err := s.client.Index(memberIndex).DeleteDocument(id)
	return err
}

func (s *meiliMemberSearch) Search(query string, limit int) ([]uuid.UUID, error) {
	resp, err := s.client.Index(memberIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *meiliMemberSearch) ReindexAll(users []model.User) (int, error) {
	docs := make([]meiliMemberDoc, 0, len(users))
	for i := range users {
		docs = append(docs, memberDoc(&users[i]))
	}
	if len(docs) == 0 {
		return 0, nil
	}

	if _, err := s.client.Index(memberIndex).AddDocuments(docs, strPtr("id")); err != nil {
		return 0, fmt.Errorf("failed to reindex members: %w", err)
	}
	return len(docs), nil
}

func memberDoc(user *model.User) meiliMemberDoc {
	doc := meiliMemberDoc{
		ID:       user.ID.String(),
		FullName: user.FullName,
		Email:    user.Email,
	}
	if p := user.Profile; p != nil {
		doc.Village = deref(p.Village)
		doc.District = deref(p.District)
		doc.NativePlace = deref(p.NativePlace)
	}
	return doc
}

func strPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
