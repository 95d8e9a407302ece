package bitbucket

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const defaultPageLength = 25

// bitbucketIterator allows iterating over
// a paged response of a Bitbucket API call
type bitbucketIterator[T any] struct {
	Client     *BitbucketCloudClient
	RequestURL string
	Query      map[string]string
	Parse      func(key, value gjson.Result) (T, error)
	hasNext    bool
	nextURL    string
}

// newBitbucketIteratorOptions is the options for creating a new bitbucket iterator
type newBitbucketIteratorOptions[T any] struct {
	// Client is the bitbucket client
	Client *BitbucketCloudClient
	// RequestURL is the request URL
	RequestURL string
	// Query holds extra query parameters for the initial call
	Query map[string]string
	// Parse is the function to parse the response
	Parse func(key, value gjson.Result) (T, error)
}

// newBitbucketIterator creates a new bitbucket iterator
func newBitbucketIterator[T any](options *newBitbucketIteratorOptions[T]) *bitbucketIterator[T] {
	return &bitbucketIterator[T]{
		Client:     options.Client,
		RequestURL: options.RequestURL,
		Query:      options.Query,
		Parse:      options.Parse,
		hasNext:    true,
		nextURL:    "",
	}
}

func (i *bitbucketIterator[T]) HasNext() bool {
	return i.hasNext
}

// GetAll returns a list of values from all pages
func (i *bitbucketIterator[T]) GetAll() ([]T, error) {
	result := []T{}
	for i.HasNext() {
		list, err := i.Next()
		if err != nil {
			return nil, err
		}

		result = append(result, list...)
	}

	return result, nil
}

func (i *bitbucketIterator[T]) sendRequest(
	request *resty.Request,
) ([]T, error) {
	r, err := request.Send()
	if err != nil {
		return nil, err
	}
	if err := checkError(r); err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(r.Body())

	i.nextURL = parsed.Get("next").String()
	if i.nextURL == "" {
		i.hasNext = false
	}

	return i.parse(parsed)
}

func (i *bitbucketIterator[T]) parse(parsed gjson.Result) ([]T, error) {
	list := []T{}

	var parseErr error
	parsed.Get("values").ForEach(func(key, value gjson.Result) bool {
		obj, err := i.Parse(key, value)
		if err != nil {
			parseErr = err
			return false
		}

		list = append(list, obj)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return list, nil
}

func (i *bitbucketIterator[T]) doInitialCall() ([]T, error) {
	r := resty.New().R().
		SetBasicAuth(i.Client.username, i.Client.password).
		SetQueryParam("pagelen", fmt.Sprint(defaultPageLength)).
		SetError(bbError{})

	for k, v := range i.Query {
		r.SetQueryParam(k, v)
	}

	r.Method = "GET"
	r.URL = i.RequestURL

	return i.sendRequest(r)
}

func (i *bitbucketIterator[T]) doNextCall() ([]T, error) {
	// The next URL already carries the query of the initial call.
	r := resty.New().R().
		SetBasicAuth(i.Client.username, i.Client.password).
		SetError(bbError{})
	r.Method = "GET"
	r.URL = i.nextURL

	return i.sendRequest(r)
}

func (i *bitbucketIterator[T]) Next() ([]T, error) {
	if !i.hasNext {
		return nil, nil
	}

	if i.nextURL == "" {
		return i.doInitialCall()
	} else {
		return i.doNextCall()
	}
}
