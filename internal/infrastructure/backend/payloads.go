package backend

import "github.com/hesabkit/hesabchat/internal/domain"

type chatRequest struct {
	Messages      []domain.ChatMessage `json:"messages"`
	AttachmentIDs []string             `json:"attachment_ids,omitempty"`
}

type chatMention struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type chatResolved struct {
	Role     string `json:"role"`
	EntityID string `json:"entity_id"`
}

type chatResponse struct {
	Message          string                        `json:"message"`
	Transaction      *domain.TransactionSuggestion `json:"transaction"`
	EntityMentions   []chatMention                 `json:"entity_mentions"`
	ResolvedEntities []chatResolved                `json:"resolved_entities"`
}

func (r chatResponse) toReply() domain.ChatReply {
	reply := domain.ChatReply{
		Message:    r.Message,
		Suggestion: r.Transaction,
	}
	for _, m := range r.EntityMentions {
		reply.Mentions = append(reply.Mentions, domain.EntityMention(m))
	}
	for _, re := range r.ResolvedEntities {
		reply.ResolvedLinks = append(reply.ResolvedLinks, domain.ResolvedEntityLink(re))
	}
	return reply
}

type entityLinkCreate struct {
	Role     string `json:"role"`
	EntityID string `json:"entity_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

type transactionCreate struct {
	Date          string             `json:"date"`
	Reference     string             `json:"reference,omitempty"`
	Description   string             `json:"description,omitempty"`
	Lines         []domain.Line      `json:"lines"`
	EntityLinks   []entityLinkCreate `json:"entity_links"`
	AttachmentIDs []string           `json:"attachment_ids"`
}

// draftToCreate shapes a staged draft into the backend's create payload.
// Resolved entity ids are preferred; mentions without a resolution fall
// back to name links so the server can get-or-create the party.
func draftToCreate(draft domain.Draft) transactionCreate {
	req := transactionCreate{
		Date:          draft.Suggestion.Date,
		Reference:     draft.Suggestion.Reference,
		Description:   draft.Suggestion.Description,
		Lines:         draft.Suggestion.Lines,
		EntityLinks:   []entityLinkCreate{},
		AttachmentIDs: draft.AttachmentIDs,
	}
	if req.AttachmentIDs == nil {
		req.AttachmentIDs = []string{}
	}
	resolvedRoles := map[string]bool{}
	for _, link := range draft.ResolvedLinks {
		req.EntityLinks = append(req.EntityLinks, entityLinkCreate{Role: link.Role, EntityID: link.EntityID})
		resolvedRoles[link.Role] = true
	}
	for _, mention := range draft.Mentions {
		if resolvedRoles[mention.Role] {
			continue
		}
		req.EntityLinks = append(req.EntityLinks, entityLinkCreate{Role: mention.Role, Name: mention.Name})
	}
	return req
}

type missingReferencesResponse struct {
	Items []domain.MissingReference `json:"items"`
}

type errorBody struct {
	Detail string `json:"detail"`
}
