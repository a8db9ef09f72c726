// Copyright 2024 Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may not
// use this file except in compliance with the License. A copy of the
// License is located at
//
// http://aws.amazon.com/apache2.0/
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
// either express or implied. See the License for the specific language governing
// permissions and limitations under the License.

package s3

import (
	"net/url"
	"regexp"
	"strings"
)

// Regex for public S3 endpoints: optional bucket, service name with optional
// features, optional region (absent for us-east-1).
var endpointRegex = regexp.MustCompile("^((.+)\\.)?" +
	"s3[.-](website[-.])?(accelerate\\.)?(dualstack[-.])?" +
	"(([-a-z0-9]+)\\.)?" +
	"amazonaws\\.com$")

const (
	endpointBucketIdx = 2
	endpointRegionIdx = 7
	defaultRegion     = "us-east-1"
)

// Location is the bucket, region and key prefix a codebase URL points at.
type Location struct {
	Bucket string
	Region string
	Prefix string
}

// ParseLocation recognizes s3://bucket/prefix codebases as well as virtual
// hosted-style and path-style https URLs of public S3 endpoints.
func ParseLocation(codebase *url.URL) (Location, bool) {
	if codebase == nil {
		return Location{}, false
	}
	if codebase.Scheme == "s3" {
		if codebase.Host == "" {
			return Location{}, false
		}
		return Location{Bucket: codebase.Host, Prefix: strings.Trim(codebase.Path, "/")}, true
	}

	match := endpointRegex.FindStringSubmatch(codebase.Hostname())
	if match == nil {
		return Location{}, false
	}

	loc := Location{Bucket: match[endpointBucketIdx], Region: match[endpointRegionIdx]}
	p := strings.TrimPrefix(codebase.Path, "/")
	if loc.Bucket == "" {
		// path-style, the bucket is the first path segment
		parts := strings.SplitN(p, "/", 2)
		loc.Bucket = parts[0]
		p = ""
		if len(parts) == 2 {
			p = parts[1]
		}
	}
	if loc.Bucket == "" {
		return Location{}, false
	}
	loc.Prefix = strings.Trim(p, "/")

	if strings.EqualFold(loc.Region, "external-1") || loc.Region == "" {
		loc.Region = defaultRegion
	}
	return loc, true
}
