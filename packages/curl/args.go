package curl

import "strconv"

// Args maps the request onto a curl argument vector. The capture format
// the parser expects depends on exactly two of these flags: --silent
// keeps the progress meter out of stdout, and --include puts response
// headers in it.
func (r *Request) Args() []string {
	args := []string{"--silent", "--include"}

	if r.Interface != "" {
		args = append(args, "--interface", r.Interface)
	}

	if r.FollowRedirects {
		args = append(args, "-L")
	}

	method := r.Method
	if method == "" {
		method = "GET"
	}
	args = append(args, "-X", method)

	if r.Proxy != "" {
		args = append(args, "--proxy", r.Proxy)
	}

	if r.Timeout > 0 {
		args = append(args, "--max-time", strconv.FormatFloat(r.Timeout.Seconds(), 'f', -1, 64))
	}

	args = append(args, r.URL)

	for _, h := range r.Headers {
		args = append(args, "-H", h)
	}

	if r.Body != "" {
		args = append(args, "-d", r.Body)
	}

	if r.Compressed {
		args = append(args, "--compressed")
	}

	return args
}
