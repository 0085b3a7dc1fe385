package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/comprof"
)

// batchInput is the JSON shape of a run input file. Either key carries the
// profile URLs; company_profile_urls wins when both are present.
type batchInput struct {
	CompanyProfileURLs []string `json:"company_profile_urls"`
	URLs               []string `json:"urls"`
	ProxyGroup         string   `json:"proxy_group"`
}

// ReadInput parses a run input file into a request. Input order is
// preserved, duplicates included.
func ReadInput(path string) (comprof.RunRequest, error) {
	var req comprof.RunRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read input file: %w", err)
	}

	var in batchInput
	if err := json.Unmarshal(data, &in); err != nil {
		return req, fmt.Errorf("failed to parse input file %q: %w", path, err)
	}

	req.Locators = in.CompanyProfileURLs
	if len(req.Locators) == 0 {
		req.Locators = in.URLs
	}
	req.ProxyGroup = comprof.ProxyGroup(in.ProxyGroup)

	if len(req.Locators) == 0 {
		return req, comprof.Errorf(comprof.EINVALID, "input file %q contains no profile URLs", path)
	}

	return req, nil
}
