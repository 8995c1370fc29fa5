// ABOUTME: Default Tokopedia strategies in declared priority order
// ABOUTME: searchProductV5, ace_search_product v4 and v3, then the search page markup

package strategy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/normalize"
)

// Strategy names
const (
	NameGraphQLV5    = "graphql_v5"
	NameGraphQLAceV4 = "graphql_ace_v4"
	NameGraphQLAceV3 = "graphql_ace_v3"
	NameMarkup       = "markup"
)

// Default upstream endpoints
const (
	DefaultGraphQLURL    = "https://gql.tokopedia.com/graphql"
	DefaultSearchPageURL = "https://www.tokopedia.com/search"
)

// Endpoints locates the upstream services
type Endpoints struct {
	// GraphQLURL is the GraphQL gateway base; the operation name is appended
	GraphQLURL string

	// SearchPageURL is the server-rendered search page
	SearchPageURL string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.GraphQLURL == "" {
		e.GraphQLURL = DefaultGraphQLURL
	}
	if e.SearchPageURL == "" {
		e.SearchPageURL = DefaultSearchPageURL
	}
	e.GraphQLURL = strings.TrimRight(e.GraphQLURL, "/")
	return e
}

// Default returns the Tokopedia strategies, most structured first
func Default(endpoints Endpoints) []Strategy {
	e := endpoints.withDefaults()
	return []Strategy{
		{
			Name:  NameGraphQLV5,
			Kind:  normalize.KindSearchV5,
			Build: e.searchV5,
		},
		{
			Name:  NameGraphQLAceV4,
			Kind:  normalize.KindAceV4,
			Build: e.aceSearch("v4"),
		},
		{
			Name:  NameGraphQLAceV3,
			Kind:  normalize.KindAceV3,
			Build: e.aceSearch("v3"),
		},
		{
			Name:  NameMarkup,
			Kind:  normalize.KindMarkup,
			Build: e.searchPage,
		},
	}
}

type gqlRequest struct {
	OperationName string                 `json:"operationName,omitempty"`
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
}

func (e Endpoints) searchV5(q domain.Query) (domain.UpstreamRequest, error) {
	params := url.Values{}
	params.Set("q", q.Term)
	params.Set("rows", strconv.Itoa(q.Count))
	params.Set("page", "1")
	params.Set("start", "0")
	params.Set("ob", "0")
	params.Set("source", "search")
	params.Set("device", "desktop")
	params.Set("srp_component_id", "02.01.00.00")
	params.Set("st", "product")
	params.Set("use_page", "true")
	params.Set("user_warehouseId", "0")
	params.Set("user_postCode", "10110")

	return e.graphql("SearchResult/getProductResult", gqlRequest{
		OperationName: "Search_SearchProduct",
		Query:         searchV5Query,
		Variables: map[string]interface{}{
			"params": params.Encode(),
			"query":  q.Term,
		},
	})
}

func (e Endpoints) aceSearch(version string) func(q domain.Query) (domain.UpstreamRequest, error) {
	field := "ace_search_product_" + version
	query := fmt.Sprintf(aceSearchQuery, strings.ToUpper(version), field)

	return func(q domain.Query) (domain.UpstreamRequest, error) {
		params := url.Values{}
		params.Set("q", q.Term)
		params.Set("rows", strconv.Itoa(q.Count))
		params.Set("page", "1")
		params.Set("start", "0")
		params.Set("device", "desktop")
		params.Set("source", "search")
		params.Set("scheme", "https")
		params.Set("st", "product")
		params.Set("ob", "23")
		params.Set("safe_search", "false")

		return e.graphql("SearchProductQuery"+strings.ToUpper(version), gqlRequest{
			OperationName: "SearchProductQuery" + strings.ToUpper(version),
			Query:         query,
			Variables:     map[string]interface{}{"params": params.Encode()},
		})
	}
}

func (e Endpoints) graphql(operation string, body gqlRequest) (domain.UpstreamRequest, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.UpstreamRequest{}, err
	}

	return domain.UpstreamRequest{
		Method: http.MethodPost,
		URL:    e.GraphQLURL + "/" + operation,
		Body:   payload,
		Kind:   domain.RequestAPI,
	}, nil
}

func (e Endpoints) searchPage(q domain.Query) (domain.UpstreamRequest, error) {
	u, err := url.Parse(e.SearchPageURL)
	if err != nil {
		return domain.UpstreamRequest{}, fmt.Errorf("invalid search page url: %w", err)
	}
	values := u.Query()
	values.Set("st", "product")
	values.Set("q", q.Term)
	values.Set("srp_component_id", "02.01.00.00")
	u.RawQuery = values.Encode()

	return domain.UpstreamRequest{
		Method: http.MethodGet,
		URL:    u.String(),
		Kind:   domain.RequestPage,
	}, nil
}

const searchV5Query = `query Search_SearchProduct($params: String!, $query: String!) {
  searchProductV5(params: $params) {
    header { totalData responseCode keywordProcess isQuerySafe }
    data {
      totalDataText
      products {
        id name url
        mediaURL { image image300 image700 }
        shop { id name url city }
        badge { title url }
        price { text number range original discountPercentage }
        labelGroups { id position title type url }
        category { id name breadcrumb }
        rating
        stock { sold }
      }
    }
  }
}`

const aceSearchQuery = `query SearchProductQuery%s($params: String!) {
  %s(params: $params) {
    header { totalData totalDataText processTime responseCode errorMessage }
    data {
      isQuerySafe
      products {
        id name price imageUrl rating ratingAverage countReview url
        badges { title imageUrl show }
        labelGroups { position title type }
        discountPercentage originalPrice categoryName
        shop { id name url city isOfficial isPowerBadge }
      }
    }
  }
}`
