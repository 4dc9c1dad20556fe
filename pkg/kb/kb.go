// Package kb wraps Bedrock knowledge base retrieval for grounding trip
// recommendations.
package kb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	contractx "github.com/voyagent/voyagent/agent/contract"
)

// retrieveAPI is the minimal Bedrock agent runtime surface required by
// Retriever. *bedrockagentruntime.Client satisfies it.
type retrieveAPI interface {
	Retrieve(ctx context.Context, in *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// Retriever queries one knowledge base and returns text passages with
// their source locations.
type Retriever struct {
	api             retrieveAPI
	knowledgeBaseID string
}

var _ contractx.Retriever = (*Retriever)(nil)

func New(api retrieveAPI, knowledgeBaseID string) (*Retriever, error) {
	if api == nil {
		return nil, errors.New("kb: api must not be nil")
	}
	knowledgeBaseID = strings.TrimSpace(knowledgeBaseID)
	if knowledgeBaseID == "" {
		return nil, errors.New("kb: knowledge base id is required")
	}
	return &Retriever{api: api, knowledgeBaseID: knowledgeBaseID}, nil
}

// Retrieve runs one vector query and returns up to topK passages.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]contractx.Passage, error) {
	results := int32(topK)
	out, err := r.api.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: &r.knowledgeBaseID,
		RetrievalQuery: &types.KnowledgeBaseQuery{
			Text: &query,
		},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults: &results,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("kb: retrieve: %w", err)
	}

	passages := make([]contractx.Passage, 0, len(out.RetrievalResults))
	for _, result := range out.RetrievalResults {
		p := contractx.Passage{}
		if result.Content != nil && result.Content.Text != nil {
			p.Text = *result.Content.Text
		}
		if result.Location != nil && result.Location.S3Location != nil && result.Location.S3Location.Uri != nil {
			p.SourceURI = *result.Location.S3Location.Uri
		}
		if p.Text == "" && p.SourceURI == "" {
			continue
		}
		passages = append(passages, p)
	}
	return passages, nil
}
